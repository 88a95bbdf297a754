package chunker

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dcamposl/ragdocs/internal/embeddings"
)

// breakpointPercentile: sentence gaps whose embedding distance exceeds
// this percentile of all gaps become chunk boundaries.
const breakpointPercentile = 95

// SemanticSplitter groups sentences between embedding-distance
// breakpoints: wherever the meaning shifts sharply from one sentence to
// the next, a new chunk starts. Oversized groups are re-split with the
// recursive strategy so the chunk size limit still holds.
type SemanticSplitter struct {
	embedder embeddings.Embedder
	inner    *RecursiveSplitter
	opts     Options
}

// NewSemanticSplitter builds the semantic strategy on top of an embedder.
func NewSemanticSplitter(embedder embeddings.Embedder, opts Options) *SemanticSplitter {
	return &SemanticSplitter{
		embedder: embedder,
		inner:    NewRecursiveSplitter(opts),
		opts:     opts,
	}
}

func (s *SemanticSplitter) Name() string { return StrategySemantic }

func (s *SemanticSplitter) Split(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	sentences := splitSentences(text)
	if len(sentences) <= 2 {
		return s.inner.Split(ctx, text)
	}

	vectors, err := s.embedder.Embed(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("embedding sentences: %w", err)
	}

	// Distance between each consecutive sentence pair.
	distances := make([]float64, len(sentences)-1)
	for i := 0; i < len(sentences)-1; i++ {
		distances[i] = 1 - cosine(vectors[i], vectors[i+1])
	}
	threshold := percentile(distances, breakpointPercentile)

	var groups []string
	var current []string
	for i, sent := range sentences {
		current = append(current, sent)
		if i < len(distances) && distances[i] > threshold {
			groups = append(groups, strings.Join(current, " "))
			current = nil
		}
	}
	if len(current) > 0 {
		groups = append(groups, strings.Join(current, " "))
	}

	var chunks []string
	for _, g := range groups {
		if len(g) > s.opts.ChunkSize {
			chunks = append(chunks, s.inner.splitRecursive(g, s.inner.separators)...)
			continue
		}
		chunks = append(chunks, g)
	}
	return chunks, nil
}

// splitSentences breaks text on sentence-ending punctuation and newlines.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		boundary := false
		switch r {
		case '\n':
			boundary = true
		case '.', '!', '?':
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' {
				boundary = true
			}
		}
		if boundary {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func percentile(values []float64, p int) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	idx := (len(sorted) - 1) * p / 100
	return sorted[idx]
}
