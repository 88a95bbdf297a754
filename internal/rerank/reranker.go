// Package rerank rescores search results with a cross-encoder style
// model. Scores are attached additively: the original similarity and
// metadata survive, and a fragment that was never reranked keeps a nil
// score.
package rerank

import (
	"context"
	"log"
	"sort"

	"github.com/dcamposl/ragdocs/internal/vectordb"
)

// Scorer assigns one relevance score per document, aligned by index.
type Scorer interface {
	Name() string
	Score(ctx context.Context, query string, documents []string) ([]float64, error)
}

// Reranker applies a Scorer to search results.
type Reranker struct {
	scorer Scorer
}

// New wraps a scorer in the reranking contract.
func New(scorer Scorer) *Reranker {
	return &Reranker{scorer: scorer}
}

// Name reports the underlying scorer's model name.
func (r *Reranker) Name() string {
	if r == nil || r.scorer == nil {
		return "none"
	}
	return r.scorer.Name()
}

// Rerank scores candidates against the query, sorts best-first and
// truncates to topN. Each returned result gains a rerank score and a
// 1-based rerank position; everything else is untouched. Empty input
// returns empty output with no model call. If the scorer fails, the
// candidates are returned unchanged (truncated to topN) and used is
// false.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []vectordb.SearchResult, topN int) (results []vectordb.SearchResult, used bool) {
	if topN <= 0 || topN > len(candidates) {
		topN = len(candidates)
	}
	if len(candidates) == 0 {
		return []vectordb.SearchResult{}, false
	}
	if r == nil || r.scorer == nil {
		return candidates[:topN], false
	}

	docs := make([]string, len(candidates))
	for i, c := range candidates {
		docs[i] = c.Content
	}

	scores, err := r.scorer.Score(ctx, query, docs)
	if err != nil || len(scores) != len(candidates) {
		log.Printf("rerank: %s unavailable (%v), returning candidates unranked", r.scorer.Name(), err)
		return candidates[:topN], false
	}

	ranked := make([]vectordb.SearchResult, len(candidates))
	copy(ranked, candidates)
	for i := range ranked {
		score := scores[i]
		ranked[i].RerankScore = &score
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].RerankScore > *ranked[j].RerankScore
	})

	ranked = ranked[:topN]
	for i := range ranked {
		ranked[i].RerankPosition = i + 1
	}
	return ranked, true
}
