package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestPlainText(t *testing.T) {
	got, err := (PlainText{}).Extract([]byte("hello\nworld"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "hello\nworld" {
		t.Errorf("got %q", got)
	}
}

func TestPlainTextRejectsInvalidUTF8(t *testing.T) {
	_, err := (PlainText{}).Extract([]byte{0xff, 0xfe, 0x00})
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestMarkdownStripsFormatting(t *testing.T) {
	src := "# Title\n\nSome **bold** and *italic* text with [a link](https://example.com).\n\n- item one\n- item two\n"
	got, err := (Markdown{}).Extract([]byte(src))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	for _, want := range []string{"Title", "bold", "italic", "a link", "item one", "item two"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %q", want, got)
		}
	}
	for _, bad := range []string{"#", "**", "](", "- item"} {
		if strings.Contains(got, bad) {
			t.Errorf("output still contains markup %q: %q", bad, got)
		}
	}
}

func TestMarkdownKeepsCodeBlocks(t *testing.T) {
	src := "Intro.\n\n```go\nfunc main() {}\n```\n"
	got, err := (Markdown{}).Extract([]byte(src))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(got, "func main() {}") {
		t.Errorf("code block content missing: %q", got)
	}
}

func TestMarkdownParagraphBreaks(t *testing.T) {
	src := "# Heading\n\nFirst paragraph.\n\nSecond paragraph.\n"
	got, err := (Markdown{}).Extract([]byte(src))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(got, "First paragraph.\n\nSecond paragraph.") {
		t.Errorf("paragraph break lost: %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("blank lines not collapsed: %q", got)
	}
}

func TestRegistryFallback(t *testing.T) {
	r := NewRegistry()

	if e := r.ForExtension("md"); e.Name() != "markdown" {
		t.Errorf("md extractor = %q", e.Name())
	}
	if e := r.ForExtension("MD"); e.Name() != "markdown" {
		t.Errorf("extension lookup should be case-insensitive, got %q", e.Name())
	}
	if e := r.ForExtension("log"); e.Name() != "plain_text" {
		t.Errorf("unknown extension should fall back to plain text, got %q", e.Name())
	}
}
