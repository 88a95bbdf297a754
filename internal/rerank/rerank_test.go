package rerank

import (
	"context"
	"errors"
	"testing"

	"github.com/dcamposl/ragdocs/internal/vectordb"
)

func candidates(contents ...string) []vectordb.SearchResult {
	out := make([]vectordb.SearchResult, len(contents))
	for i, c := range contents {
		out[i] = vectordb.SearchResult{
			Fragment:   vectordb.Fragment{ID: c, Content: c},
			Similarity: 1.0 - float32(i)*0.1,
		}
	}
	return out
}

// failingScorer stands in for an unreachable rerank backend.
type failingScorer struct{}

func (failingScorer) Name() string { return "failing" }
func (failingScorer) Score(ctx context.Context, q string, docs []string) ([]float64, error) {
	return nil, errors.New("connection refused")
}

// countingScorer records calls and scores documents by length.
type countingScorer struct {
	calls int
}

func (s *countingScorer) Name() string { return "counting" }
func (s *countingScorer) Score(ctx context.Context, q string, docs []string) ([]float64, error) {
	s.calls++
	scores := make([]float64, len(docs))
	for i, d := range docs {
		scores[i] = float64(len(d))
	}
	return scores, nil
}

func TestRerankEmptyInputSkipsModel(t *testing.T) {
	scorer := &countingScorer{}
	r := New(scorer)

	got, used := r.Rerank(context.Background(), "query", nil, 5)
	if len(got) != 0 {
		t.Errorf("got %d results for empty input", len(got))
	}
	if used {
		t.Error("used should be false for empty input")
	}
	if scorer.calls != 0 {
		t.Errorf("scorer called %d times for empty input", scorer.calls)
	}
}

func TestRerankSortsAndTruncates(t *testing.T) {
	r := New(&countingScorer{})
	cands := candidates("bb", "dddd", "a", "ccc")

	got, used := r.Rerank(context.Background(), "q", cands, 2)
	if !used {
		t.Fatal("used should be true")
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	// Length-scored: dddd then ccc.
	if got[0].Content != "dddd" || got[1].Content != "ccc" {
		t.Errorf("order = %q, %q", got[0].Content, got[1].Content)
	}
	if got[0].RerankScore == nil || *got[0].RerankScore != 4 {
		t.Errorf("top score = %v, want 4", got[0].RerankScore)
	}
	if got[0].RerankPosition != 1 || got[1].RerankPosition != 2 {
		t.Errorf("positions = %d, %d; want 1-based", got[0].RerankPosition, got[1].RerankPosition)
	}
}

func TestRerankAdditive(t *testing.T) {
	r := New(&countingScorer{})
	cands := candidates("longest content here", "short")
	cands[0].Metadata.SourceFile = "doc.txt"

	got, _ := r.Rerank(context.Background(), "q", cands, 2)
	if got[0].Metadata.SourceFile != "doc.txt" {
		t.Error("metadata lost during rerank")
	}
	if got[0].Similarity == 0 {
		t.Error("similarity overwritten during rerank")
	}
	// Input slice untouched.
	if cands[0].RerankPosition != 0 || cands[0].RerankScore != nil {
		t.Error("rerank mutated its input")
	}
}

func TestRerankDegradesOnScorerFailure(t *testing.T) {
	r := New(failingScorer{})
	cands := candidates("first", "second", "third")

	got, used := r.Rerank(context.Background(), "q", cands, 2)
	if used {
		t.Error("used should be false when the scorer fails")
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want topN candidates unchanged", len(got))
	}
	if got[0].Content != "first" || got[1].Content != "second" {
		t.Errorf("degraded order changed: %q, %q", got[0].Content, got[1].Content)
	}
	if got[0].RerankScore != nil {
		t.Error("degraded results should carry no rerank score")
	}
}

func TestRerankNilReranker(t *testing.T) {
	var r *Reranker
	cands := candidates("a", "b")
	got, used := r.Rerank(context.Background(), "q", cands, 1)
	if used || len(got) != 1 || got[0].Content != "a" {
		t.Errorf("nil reranker: got %v used=%v", got, used)
	}
}

func TestRerankTopNLargerThanInput(t *testing.T) {
	r := New(&countingScorer{})
	got, _ := r.Rerank(context.Background(), "q", candidates("one", "two"), 10)
	if len(got) != 2 {
		t.Errorf("got %d results, want all candidates", len(got))
	}
}

func TestLexicalScorer(t *testing.T) {
	s := NewLexicalScorer()
	scores, err := s.Score(context.Background(), "install the printer driver", []string{
		"how to install a printer driver on windows",
		"quarterly revenue results for the finance team",
	})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if scores[0] <= scores[1] {
		t.Errorf("relevant doc scored %f, irrelevant %f", scores[0], scores[1])
	}
}

func TestLexicalScorerEmptyQuery(t *testing.T) {
	s := NewLexicalScorer()
	scores, err := s.Score(context.Background(), "!!!", []string{"doc one", "doc two", "doc three"})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	// Order-preserving descending scores.
	for i := 1; i < len(scores); i++ {
		if scores[i] >= scores[i-1] {
			t.Errorf("scores not descending at %d: %v", i, scores)
		}
	}
}

func TestTokenize(t *testing.T) {
	terms := tokenize("The QUICK brown-fox, v2 x!")
	for _, want := range []string{"the", "quick", "brown", "fox", "v2"} {
		if terms[want] == 0 {
			t.Errorf("missing term %q in %v", want, terms)
		}
	}
	if terms["x"] != 0 {
		t.Error("single-character token should be dropped")
	}
}

func TestNewCohereScorerRequiresKey(t *testing.T) {
	if _, err := NewCohereScorer("", "rerank-english-v3.0"); err == nil {
		t.Error("expected error for empty api key")
	}
	s, err := NewCohereScorer("key", "")
	if err != nil {
		t.Fatalf("NewCohereScorer: %v", err)
	}
	if s.Name() != "cohere/rerank-english-v3.0" {
		t.Errorf("default model name = %q", s.Name())
	}
}
