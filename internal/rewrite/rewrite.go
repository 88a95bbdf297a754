// Package rewrite turns a conversational question into a denser search
// query. It is a pure function: fixed pattern list, fixed expansion
// table, no model calls, so the same question always rewrites to the
// same query.
package rewrite

import (
	"sort"
	"strings"
)

// leadingPhrases are conversational prefixes that add no retrieval
// signal and get stripped.
var leadingPhrases = []string{
	"what is the",
	"what is",
	"what are",
	"how do i",
	"how do you",
	"how can i",
	"how does",
	"can you tell me",
	"tell me about",
	"explain",
	"please",
	"que es",
	"qué es",
	"como puedo",
	"cómo puedo",
}

// expansions appends synonyms for common abbreviations so term-based
// retrieval still matches documents that spell things out.
var expansions = map[string][]string{
	"docs":    {"documentation", "documents"},
	"config":  {"configuration", "settings"},
	"auth":    {"authentication", "login"},
	"db":      {"database"},
	"install": {"installation", "setup"},
	"error":   {"failure", "problem"},
	"spec":    {"specification"},
	"repo":    {"repository"},
	"api":     {"endpoint", "interface"},
	"faq":     {"frequently asked questions"},
}

// Rewrite produces the final search query for a question. The original
// question is not modified; callers keep it for answer generation.
func Rewrite(question string) string {
	q := strings.TrimSpace(question)
	if q == "" {
		return q
	}

	q = strings.TrimRight(q, "?!.¿¡ ")
	lower := strings.ToLower(q)

	for _, phrase := range leadingPhrases {
		if strings.HasPrefix(lower, phrase+" ") {
			q = strings.TrimSpace(q[len(phrase):])
			lower = strings.ToLower(q)
			break
		}
	}

	// Collapse internal whitespace.
	q = strings.Join(strings.Fields(q), " ")
	lower = strings.ToLower(q)

	// Append synonyms for any abbreviation present, in a fixed order.
	words := map[string]bool{}
	for _, w := range strings.Fields(lower) {
		words[strings.Trim(w, ".,;:!?\"'()")] = true
	}
	keys := make([]string, 0, len(expansions))
	for k := range expansions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var extra []string
	for _, k := range keys {
		if !words[k] {
			continue
		}
		for _, syn := range expansions[k] {
			if !strings.Contains(lower, syn) {
				extra = append(extra, syn)
			}
		}
	}
	if len(extra) > 0 {
		q = q + " " + strings.Join(extra, " ")
	}
	return q
}
