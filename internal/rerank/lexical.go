package rerank

import "context"

// LexicalScorer ranks documents by query term overlap. It needs no
// network or key, so it is the default backend.
type LexicalScorer struct{}

// NewLexicalScorer returns the offline term-overlap scorer.
func NewLexicalScorer() *LexicalScorer {
	return &LexicalScorer{}
}

func (s *LexicalScorer) Name() string { return "lexical/term-overlap" }

func (s *LexicalScorer) Score(ctx context.Context, query string, documents []string) ([]float64, error) {
	queryTerms := tokenize(query)
	scores := make([]float64, len(documents))
	if len(queryTerms) == 0 {
		// Nothing to match on; preserve the incoming order.
		for i := range documents {
			scores[i] = 1.0 - float64(i)*0.01
		}
		return scores, nil
	}
	for i, doc := range documents {
		scores[i] = termOverlap(queryTerms, doc)
	}
	return scores, nil
}

// tokenize splits on non-alphanumeric runes, dropping single characters.
func tokenize(text string) map[string]int {
	terms := make(map[string]int)
	word := make([]rune, 0, 16)
	flush := func() {
		if len(word) >= 2 {
			terms[string(word)]++
		}
		word = word[:0]
	}
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			word = append(word, r)
		case r >= 'A' && r <= 'Z':
			word = append(word, r+('a'-'A'))
		default:
			flush()
		}
	}
	flush()
	return terms
}

// termOverlap is the fraction of query terms present in the document.
func termOverlap(queryTerms map[string]int, doc string) float64 {
	docTerms := tokenize(doc)
	if len(docTerms) == 0 {
		return 0
	}
	matches := 0
	for term := range queryTerms {
		if _, ok := docTerms[term]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(queryTerms))
}
