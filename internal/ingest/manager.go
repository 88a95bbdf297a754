// Package ingest runs asynchronous document ingestion jobs: list a
// source folder, download and extract each document, chunk, embed, and
// write the resulting collection. Every job leaves a durable record
// that the status endpoint serves verbatim.
package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dcamposl/ragdocs/internal/chunker"
	"github.com/dcamposl/ragdocs/internal/config"
	"github.com/dcamposl/ragdocs/internal/embeddings"
	"github.com/dcamposl/ragdocs/internal/extract"
	"github.com/dcamposl/ragdocs/internal/storage"
	"github.com/dcamposl/ragdocs/internal/vectordb"
)

// Request is the body of a load-from-url call. Zero chunking values
// fall back to the configured defaults.
type Request struct {
	SourceURL         string `json:"source_url"`
	CollectionName    string `json:"collection_name"`
	ChunkingStrategy  string `json:"chunking_strategy,omitempty"`
	ChunkSize         int    `json:"chunk_size,omitempty"`
	ChunkOverlap      int    `json:"chunk_overlap,omitempty"`
	PreprocessContent bool   `json:"preprocess_content,omitempty"`
}

// Manager validates requests, records jobs, and runs the ingestion
// pipeline in the background.
type Manager struct {
	cfg        *config.Config
	store      JobStore
	index      *IndexStore
	drive      storage.Provider
	local      storage.Provider
	extractors *extract.Registry
	embedder   embeddings.Embedder
	vdb        *vectordb.Index

	wg sync.WaitGroup
}

// NewManager wires the pipeline. drive may be nil when no credentials
// are configured; index may be nil to skip history rows.
func NewManager(cfg *config.Config, store JobStore, index *IndexStore, drive, local storage.Provider,
	extractors *extract.Registry, embedder embeddings.Embedder, vdb *vectordb.Index) *Manager {
	return &Manager{
		cfg:        cfg,
		store:      store,
		index:      index,
		drive:      drive,
		local:      local,
		extractors: extractors,
		embedder:   embedder,
		vdb:        vdb,
	}
}

// Submit validates the request, persists a PENDING record, and starts
// the pipeline in the background. The returned job carries the
// processing id the client polls with. Validation failures return a
// *ValidationError and create no record.
func (m *Manager) Submit(ctx context.Context, req Request) (*Job, error) {
	if strings.TrimSpace(req.SourceURL) == "" {
		return nil, &ValidationError{Code: CodeValidationError, Message: "source_url is required"}
	}
	if err := vectordb.ValidateCollectionName(req.CollectionName); err != nil {
		return nil, &ValidationError{Code: CodeValidationError, Message: err.Error()}
	}

	opts := m.chunkingOptions(req)
	if err := opts.Validate(); err != nil {
		return nil, &ValidationError{Code: CodeValidationError, Message: err.Error()}
	}

	provider, err := storage.ProviderFor(req.SourceURL, m.drive, m.local)
	if err != nil {
		return nil, &ValidationError{Code: CodeValidationError, Message: err.Error()}
	}
	if err := provider.Validate(ctx, req.SourceURL); err != nil {
		return nil, &ValidationError{Code: CodeSourceNotFound, Message: err.Error()}
	}

	now := time.Now().UTC()
	job := &Job{
		ID:             NewJobID(),
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
		SourceURL:      req.SourceURL,
		CollectionName: req.CollectionName,
		Errors:         []DocumentError{},
	}
	if err := m.persist(ctx, job); err != nil {
		return nil, err
	}

	// The pipeline works on its own copy so the caller can read the
	// returned job without racing the background goroutine.
	running := *job
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.run(&running, req, provider, opts)
	}()

	return job, nil
}

// GetStatus returns the durable record for the id.
func (m *Manager) GetStatus(id string) (*Job, error) {
	return m.store.Get(id)
}

// List returns the ingestion history, newest first. Returns nil when no
// index store is configured.
func (m *Manager) List(ctx context.Context, limit int) ([]JobListing, error) {
	if m.index == nil {
		return nil, nil
	}
	return m.index.List(ctx, limit)
}

// Wait blocks until all background jobs finish. Used on shutdown and in
// tests.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) chunkingOptions(req Request) chunker.Options {
	opts := chunker.Options{
		Strategy:     req.ChunkingStrategy,
		ChunkSize:    req.ChunkSize,
		ChunkOverlap: req.ChunkOverlap,
		Separators:   m.cfg.Chunking.Separators,
	}
	if opts.Strategy == "" {
		opts.Strategy = m.cfg.Chunking.Strategy
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = m.cfg.Chunking.ChunkSize
	}
	if req.ChunkSize == 0 && req.ChunkOverlap == 0 {
		opts.ChunkOverlap = m.cfg.Chunking.ChunkOverlap
	}
	return opts
}

func (m *Manager) downloadOptions() storage.DownloadOptions {
	return storage.DownloadOptions{
		Timeout:    time.Duration(m.cfg.Download.TimeoutPerFileSeconds) * time.Second,
		MaxSize:    int64(m.cfg.Download.MaxFileSizeMB) * 1024 * 1024,
		Extensions: m.cfg.Download.FileExtensions,
	}
}

// persist writes the record and, when present, the history row.
func (m *Manager) persist(ctx context.Context, job *Job) error {
	if err := m.store.Put(job); err != nil {
		return err
	}
	if m.index != nil {
		if err := m.index.Upsert(ctx, job); err != nil {
			log.Printf("ingest: indexing job %s: %v", job.ID, err)
		}
	}
	return nil
}

// run executes the pipeline for one job. It always leaves a terminal
// record: per-document failures accumulate in the record while the job
// continues, and only pipeline-level failures mark it FAILED.
func (m *Manager) run(job *Job, req Request, provider storage.Provider, opts chunker.Options) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			m.fail(ctx, job, fmt.Sprintf("internal error: %v", r))
		}
	}()

	job.Status = StatusRunning
	job.UpdatedAt = time.Now().UTC()
	if err := m.persist(ctx, job); err != nil {
		log.Printf("ingest: persisting job %s: %v", job.ID, err)
	}

	files, err := provider.List(ctx, req.SourceURL)
	if err != nil {
		m.fail(ctx, job, fmt.Sprintf("listing source: %v", err))
		return
	}
	job.Summary.DocumentsFound = len(files)

	destDir := filepath.Join(m.cfg.DocsDir, job.ID)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		m.fail(ctx, job, fmt.Sprintf("creating download dir: %v", err))
		return
	}

	splitter := chunker.ForStrategy(opts, m.embedder)
	dlOpts := m.downloadOptions()

	var chunks []chunker.Chunk
	for _, file := range files {
		docChunks, err := m.processFile(ctx, provider, req.SourceURL, file, destDir, dlOpts, splitter, opts, req.PreprocessContent)
		if err != nil {
			job.Summary.DocumentsFailed++
			job.Errors = append(job.Errors, DocumentError{
				Filename: file.Name,
				Code:     codeForError(err),
				Message:  err.Error(),
			})
			continue
		}
		job.Summary.DocumentsLoaded++
		chunks = append(chunks, docChunks...)
	}

	stats := chunker.ComputeStats(chunks)
	job.ChunkingStats = &stats

	if len(chunks) > 0 {
		batchSize := m.cfg.Embedding.BatchSize
		stored, err := m.vdb.CreateOrReplace(ctx, job.CollectionName, chunks, batchSize)
		job.Summary.ChunksCreated = stored
		if err != nil {
			m.fail(ctx, job, fmt.Sprintf("building collection: %v", err))
			return
		}
		if batchSize <= 0 {
			batchSize = len(chunks)
		}
		job.Embedding = &EmbeddingStats{
			Model:      m.embedder.Name(),
			Dimensions: m.embedder.Dimensions(),
			Batches:    (len(chunks) + batchSize - 1) / batchSize,
		}
		job.ResultRef = filepath.Join(m.cfg.DataDir, job.CollectionName)
	}

	job.Status = StatusSucceeded
	job.UpdatedAt = time.Now().UTC()
	if err := m.persist(ctx, job); err != nil {
		log.Printf("ingest: persisting job %s: %v", job.ID, err)
	}
}

// processFile runs download, extract, and chunk for one document.
func (m *Manager) processFile(ctx context.Context, provider storage.Provider, source string,
	file storage.FileInfo, destDir string, dlOpts storage.DownloadOptions,
	splitter chunker.Splitter, opts chunker.Options, preprocess bool) ([]chunker.Chunk, error) {

	path, err := provider.Download(ctx, source, file, destDir, dlOpts)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading downloaded file: %w", err)
	}

	text, err := m.extractors.ForExtension(file.Extension).Extract(data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s: %w", file.Name, errEmptyDocument)
	}

	chunks, err := chunker.ChunkDocument(ctx, splitter, file.Name, text, opts, preprocess)
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// fail marks the job FAILED with a single pipeline-level error entry.
func (m *Manager) fail(ctx context.Context, job *Job, msg string) {
	job.Status = StatusFailed
	job.UpdatedAt = time.Now().UTC()
	job.Errors = append(job.Errors, DocumentError{Code: CodeProcessingError, Message: msg})
	if err := m.persist(ctx, job); err != nil {
		log.Printf("ingest: persisting failed job %s: %v", job.ID, err)
	}
}
