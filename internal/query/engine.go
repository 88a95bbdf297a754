// Package query answers questions against an indexed collection:
// optional query rewriting, vector search, optional reranking, and
// grounded answer generation. The whole flow is synchronous.
package query

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dcamposl/ragdocs/internal/generate"
	"github.com/dcamposl/ragdocs/internal/rerank"
	"github.com/dcamposl/ragdocs/internal/rewrite"
	"github.com/dcamposl/ragdocs/internal/vectordb"
)

// snippetLength bounds the preview text of each context fragment.
const snippetLength = 200

// Request is the body of an ask call. Reranking and rewriting are both
// opt-in.
type Request struct {
	Question          string `json:"question"`
	Collection        string `json:"collection"`
	TopK              int    `json:"top_k,omitempty"`
	UseReranking      bool   `json:"use_reranking,omitempty"`
	UseQueryRewriting bool   `json:"use_query_rewriting,omitempty"`
}

// ContextFragment is one retrieved chunk as surfaced to the caller.
// RerankScore is nil when the fragment was never reranked, so consumers
// can tell "unknown" apart from a genuine zero score.
type ContextFragment struct {
	FileName    string   `json:"file_name"`
	Snippet     string   `json:"snippet"`
	Content     string   `json:"content"`
	RerankScore *float64 `json:"rerank_score,omitempty"`
}

// Result is the full answer payload.
type Result struct {
	Question           string            `json:"question"`
	FinalQuery         string            `json:"final_query"`
	Answer             string            `json:"answer"`
	CollectionName     string            `json:"collection_name"`
	FilesConsulted     []string          `json:"files_consulted"`
	ContextFragments   []ContextFragment `json:"context_fragments"`
	RerankerUsed       bool              `json:"reranker_used"`
	QueryRewritingUsed bool              `json:"query_rewriting_used"`
	ModelUsed          string            `json:"model_used"`
	ElapsedSeconds     float64           `json:"elapsed_seconds"`
}

// Engine runs the retrieval and generation pipeline.
type Engine struct {
	index     *vectordb.Index
	reranker  *rerank.Reranker
	generator *generate.Generator
	topK      int
}

// NewEngine wires the pipeline. reranker may be nil to disable
// reranking entirely; defaultTopK is used when a request omits top_k.
func NewEngine(index *vectordb.Index, reranker *rerank.Reranker, generator *generate.Generator, defaultTopK int) *Engine {
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &Engine{
		index:     index,
		reranker:  reranker,
		generator: generator,
		topK:      defaultTopK,
	}
}

// Ask answers the question against the named collection. The rewritten
// query steers retrieval and reranking only; the answer is always
// generated from the question as asked. A missing or empty collection
// produces the fixed insufficient-information answer rather than an
// error, since from the caller's view the system simply has nothing
// indexed to say.
func (e *Engine) Ask(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, errors.New("question is required")
	}
	if err := vectordb.ValidateCollectionName(req.Collection); err != nil {
		return nil, err
	}

	finalQuery := question
	rewritten := false
	if req.UseQueryRewriting {
		if fq := rewrite.Rewrite(question); fq != question {
			finalQuery = fq
			rewritten = true
		}
	}

	topK := req.TopK
	if topK <= 0 {
		topK = e.topK
	}

	candidates, err := e.index.Search(ctx, req.Collection, finalQuery, topK)
	if err != nil && !errors.Is(err, vectordb.ErrNotFound) {
		return nil, fmt.Errorf("searching collection %q: %w", req.Collection, err)
	}

	rerankerUsed := false
	if req.UseReranking && e.reranker != nil && len(candidates) > 0 {
		candidates, rerankerUsed = e.reranker.Rerank(ctx, finalQuery, candidates, topK)
	}

	gen, err := e.generator.Answer(ctx, question, candidates)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	files := gen.Sources
	if files == nil {
		files = []string{}
	}
	return &Result{
		Question:           question,
		FinalQuery:         finalQuery,
		Answer:             gen.Answer,
		CollectionName:     req.Collection,
		FilesConsulted:     files,
		ContextFragments:   toFragments(candidates),
		RerankerUsed:       rerankerUsed,
		QueryRewritingUsed: rewritten,
		ModelUsed:          gen.ModelUsed,
		ElapsedSeconds:     math.Round(time.Since(start).Seconds()*1000) / 1000,
	}, nil
}

// toFragments converts the post-rerank candidates into the caller-facing
// shape, preserving their order.
func toFragments(candidates []vectordb.SearchResult) []ContextFragment {
	fragments := make([]ContextFragment, len(candidates))
	for i, c := range candidates {
		fragments[i] = ContextFragment{
			FileName:    c.Metadata.SourceFile,
			Snippet:     snippet(c.Content),
			Content:     c.Content,
			RerankScore: c.RerankScore,
		}
	}
	return fragments
}

func snippet(content string) string {
	if len(content) <= snippetLength {
		return content
	}
	return content[:snippetLength] + "..."
}
