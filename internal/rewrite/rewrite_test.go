package rewrite

import (
	"strings"
	"testing"
)

func TestRewriteDeterministic(t *testing.T) {
	q := "How do I configure the db connection?"
	first := Rewrite(q)
	for i := 0; i < 5; i++ {
		if got := Rewrite(q); got != first {
			t.Fatalf("rewrite not deterministic: %q vs %q", got, first)
		}
	}
}

func TestRewriteStripsLeadingPhrase(t *testing.T) {
	got := Rewrite("What is the ingestion pipeline?")
	if strings.HasPrefix(strings.ToLower(got), "what is") {
		t.Errorf("leading phrase not stripped: %q", got)
	}
	if !strings.Contains(got, "ingestion pipeline") {
		t.Errorf("content lost: %q", got)
	}
}

func TestRewriteExpandsAbbreviations(t *testing.T) {
	got := Rewrite("where is the config for auth")
	for _, want := range []string{"configuration", "authentication"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing expansion %q in %q", want, got)
		}
	}
}

func TestRewriteNoPatternMatch(t *testing.T) {
	got := Rewrite("ingestion pipeline throughput")
	if got != "ingestion pipeline throughput" {
		t.Errorf("unmatched query changed: %q", got)
	}
}

func TestRewriteEmptyAndWhitespace(t *testing.T) {
	if got := Rewrite(""); got != "" {
		t.Errorf("Rewrite(\"\") = %q", got)
	}
	if got := Rewrite("   "); got != "" {
		t.Errorf("Rewrite(blank) = %q", got)
	}
}

func TestRewriteCollapsesWhitespace(t *testing.T) {
	got := Rewrite("chunk   size    limits")
	if got != "chunk size limits" {
		t.Errorf("got %q", got)
	}
}

func TestRewriteDropsTrailingPunctuation(t *testing.T) {
	got := Rewrite("vector collections?!")
	if strings.ContainsAny(got, "?!") {
		t.Errorf("punctuation kept: %q", got)
	}
}
