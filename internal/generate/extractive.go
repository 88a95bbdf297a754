package generate

import (
	"strings"

	"github.com/dcamposl/ragdocs/internal/vectordb"
)

const (
	maxExtractiveFragments  = 3
	maxSentencesPerFragment = 2
)

// extractiveAnswer builds an answer without any model: the leading
// sentences of the best fragments, labelled by source. Crude, but it
// keeps the query pipeline serving grounded text when every backend is
// down.
func extractiveAnswer(question string, fragments []vectordb.SearchResult) string {
	var b strings.Builder
	b.WriteString("Based on the indexed documents:\n")

	n := len(fragments)
	if n > maxExtractiveFragments {
		n = maxExtractiveFragments
	}
	for _, f := range fragments[:n] {
		summary := leadingSentences(f.Content, maxSentencesPerFragment)
		if summary == "" {
			continue
		}
		b.WriteString("\n- ")
		b.WriteString(summary)
		if src := f.Metadata.SourceFile; src != "" {
			b.WriteString(" (")
			b.WriteString(src)
			b.WriteString(")")
		}
	}
	return b.String()
}

// leadingSentences returns the first n sentences of text.
func leadingSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	count := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			count++
			if count == n {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return text
}
