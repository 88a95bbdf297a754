package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dcamposl/ragdocs/internal/config"
	"github.com/dcamposl/ragdocs/internal/db"
	"github.com/dcamposl/ragdocs/internal/embeddings"
	"github.com/dcamposl/ragdocs/internal/extract"
	"github.com/dcamposl/ragdocs/internal/generate"
	"github.com/dcamposl/ragdocs/internal/ingest"
	"github.com/dcamposl/ragdocs/internal/llm"
	"github.com/dcamposl/ragdocs/internal/query"
	"github.com/dcamposl/ragdocs/internal/rerank"
	"github.com/dcamposl/ragdocs/internal/storage"
	"github.com/dcamposl/ragdocs/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `ragdocs init` to create a config file", err)
	}
	return cfg, nil
}

// buildVectorIndex wires the embedder and the collection index.
func buildVectorIndex(ctx context.Context, cfg *config.Config) (embeddings.Embedder, *vectordb.Index) {
	embedder := embeddings.FromConfig(ctx, cfg)
	cooldown := time.Duration(cfg.Embedding.CooldownSeconds) * time.Second
	return embedder, vectordb.NewIndex(cfg.DataDir, embedder, cooldown)
}

// buildIngestManager wires the full ingestion pipeline.
func buildIngestManager(ctx context.Context, cfg *config.Config, database *db.DB,
	embedder embeddings.Embedder, vdb *vectordb.Index) (*ingest.Manager, error) {

	store, err := ingest.NewFileStore(cfg.LogDir)
	if err != nil {
		return nil, err
	}

	var index *ingest.IndexStore
	if database != nil {
		index = ingest.NewIndexStore(database)
	}

	var drive storage.Provider
	if cfg.DriveCredentials != "" {
		dp, err := storage.NewDriveProvider(ctx, cfg.DriveCredentials)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: drive provider unavailable: %v\n", err)
		} else {
			drive = dp
		}
	}

	return ingest.NewManager(cfg, store, index, drive, storage.NewLocalProvider(),
		extract.NewRegistry(), embedder, vdb), nil
}

// llmRequestsPerMinute throttles completions so bursts of questions
// stay inside hosted-provider rate limits.
const llmRequestsPerMinute = 30

// buildQueryEngine wires retrieval, reranking, and generation.
func buildQueryEngine(cfg *config.Config, vdb *vectordb.Index) *query.Engine {
	var provider llm.Provider
	p, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: LLM provider unavailable (%v), answers will be extractive\n", err)
	} else {
		provider = llm.NewRateLimitedProvider(p, llmRequestsPerMinute)
	}

	generator := generate.New(provider, cfg.Model)
	return query.NewEngine(vdb, buildReranker(cfg), generator, 5)
}

// buildReranker selects the configured scorer, falling back to the
// lexical one when the cohere key is missing.
func buildReranker(cfg *config.Config) *rerank.Reranker {
	if cfg.Rerank.Provider == "cohere" {
		scorer, err := rerank.NewCohereScorer(os.Getenv("COHERE_API_KEY"), cfg.Rerank.Model)
		if err == nil {
			return rerank.New(scorer)
		}
		fmt.Fprintf(os.Stderr, "Warning: cohere reranker unavailable (%v), using lexical scoring\n", err)
	}
	return rerank.New(rerank.NewLexicalScorer())
}

// openDatabase opens the job history database under the data dir.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	return db.Open(filepath.Join(cfg.DataDir, "ragdocs.db"))
}
