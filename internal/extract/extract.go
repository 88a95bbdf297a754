// Package extract converts downloaded document bytes into plain text
// ready for chunking. Extractors are registered by file extension;
// unknown extensions fall back to plain text.
package extract

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrCorrupt indicates the file bytes could not be decoded as text.
var ErrCorrupt = errors.New("file content is not valid text")

// Extractor turns raw file bytes into plain text.
type Extractor interface {
	Name() string
	Extract(data []byte) (string, error)
}

// Registry maps file extensions (lowercase, no dot) to extractors.
type Registry struct {
	extractors map[string]Extractor
	fallback   Extractor
}

// NewRegistry returns a registry with the built-in extractors: plain
// text for txt, markdown for md, plain text as the fallback.
func NewRegistry() *Registry {
	plain := PlainText{}
	r := &Registry{
		extractors: map[string]Extractor{},
		fallback:   plain,
	}
	r.Register("txt", plain)
	r.Register("md", Markdown{})
	return r
}

// Register adds or replaces the extractor for an extension.
func (r *Registry) Register(ext string, e Extractor) {
	r.extractors[strings.ToLower(ext)] = e
}

// ForExtension returns the extractor for ext, or the plain-text fallback.
func (r *Registry) ForExtension(ext string) Extractor {
	if e, ok := r.extractors[strings.ToLower(ext)]; ok {
		return e
	}
	return r.fallback
}

// PlainText passes file bytes through after a UTF-8 validity check.
type PlainText struct{}

func (PlainText) Name() string { return "plain_text" }

func (PlainText) Extract(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("decoding text: %w", ErrCorrupt)
	}
	return string(data), nil
}
