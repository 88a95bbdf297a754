package chunker

import (
	"context"
	"strings"
)

// defaultSeparators runs from coarsest to finest. The empty separator
// at the end means "cut anywhere".
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// RecursiveSplitter splits on the coarsest separator that still occurs
// in the text, recursing with finer separators for any piece that
// remains over the size limit, then merges adjacent pieces back
// together up to the chunk size with the configured overlap.
type RecursiveSplitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewRecursiveSplitter builds the default strategy.
func NewRecursiveSplitter(opts Options) *RecursiveSplitter {
	seps := opts.Separators
	if len(seps) == 0 {
		seps = defaultSeparators
	}
	return &RecursiveSplitter{
		chunkSize:  opts.ChunkSize,
		overlap:    opts.ChunkOverlap,
		separators: seps,
	}
}

func (s *RecursiveSplitter) Name() string { return StrategyRecursiveCharacter }

func (s *RecursiveSplitter) Split(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	return s.splitRecursive(text, s.separators), nil
}

func (s *RecursiveSplitter) splitRecursive(text string, seps []string) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	// Pick the first separator present in the text.
	sep := ""
	var rest []string
	for i, c := range seps {
		if c == "" {
			break
		}
		if strings.Contains(text, c) {
			sep = c
			rest = seps[i+1:]
			break
		}
	}
	if sep == "" {
		return s.window(text)
	}

	parts := splitAfter(text, sep)

	var chunks []string
	var small []string
	flush := func() {
		if len(small) > 0 {
			chunks = append(chunks, s.merge(small)...)
			small = nil
		}
	}
	for _, p := range parts {
		if len(p) > s.chunkSize {
			flush()
			chunks = append(chunks, s.splitRecursive(p, rest)...)
			continue
		}
		small = append(small, p)
	}
	flush()
	return chunks
}

// merge greedily joins parts into chunks of at most chunkSize, carrying
// a tail of roughly overlap bytes from one chunk into the next.
func (s *RecursiveSplitter) merge(parts []string) []string {
	var chunks []string
	var window []string
	total := 0
	for _, p := range parts {
		if total+len(p) > s.chunkSize && len(window) > 0 {
			chunks = append(chunks, strings.TrimSpace(strings.Join(window, "")))
			for total > s.overlap && len(window) > 0 {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, p)
		total += len(p)
	}
	if len(window) > 0 {
		if c := strings.TrimSpace(strings.Join(window, "")); c != "" {
			chunks = append(chunks, c)
		}
	}
	return chunks
}

// window cuts fixed-size chunks with overlap when no separator applies.
func (s *RecursiveSplitter) window(text string) []string {
	step := s.chunkSize - s.overlap
	var chunks []string
	for i := 0; i < len(text); i += step {
		end := i + s.chunkSize
		if end >= len(text) {
			chunks = append(chunks, text[i:])
			break
		}
		chunks = append(chunks, text[i:end])
	}
	return chunks
}

// splitAfter splits text keeping the separator attached to the piece
// before it, so no characters are lost on rejoin.
func splitAfter(text, sep string) []string {
	parts := strings.SplitAfter(text, sep)
	// Drop a trailing empty piece left when text ends with sep.
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// FixedSizeSplitter cuts fixed character windows with overlap and no
// regard for separators.
type FixedSizeSplitter struct {
	inner *RecursiveSplitter
}

// NewFixedSizeSplitter builds the fixed window strategy.
func NewFixedSizeSplitter(opts Options) *FixedSizeSplitter {
	return &FixedSizeSplitter{inner: &RecursiveSplitter{
		chunkSize: opts.ChunkSize,
		overlap:   opts.ChunkOverlap,
	}}
}

func (s *FixedSizeSplitter) Name() string { return StrategyFixedSize }

func (s *FixedSizeSplitter) Split(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if len(text) <= s.inner.chunkSize {
		return []string{text}, nil
	}
	return s.inner.window(text), nil
}
