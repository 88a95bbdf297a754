// Package chunker splits extracted document text into overlapping
// chunks ready for embedding. Strategies sit behind the Splitter
// interface; unknown strategy names fall back to the recursive
// character splitter.
package chunker

import (
	"context"
	"fmt"
)

// Strategy names accepted in ingestion requests.
const (
	StrategyRecursiveCharacter = "recursive_character"
	StrategyFixedSize          = "fixed_size"
	StrategySemantic           = "semantic"
)

// Metadata travels with every chunk into the vector store.
type Metadata struct {
	SourceFile       string
	ChunkIndex       int
	TotalChunksInDoc int
	ChunkingStrategy string
	ChunkSize        int
	ChunkOverlap     int
	Preprocessed     bool
}

// Chunk is one piece of a source document.
type Chunk struct {
	Content  string
	Metadata Metadata
}

// Options configure a split.
type Options struct {
	Strategy     string
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

// Validate rejects configurations that would never terminate or produce
// degenerate chunks.
func (o Options) Validate() error {
	if o.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", o.ChunkSize)
	}
	if o.ChunkOverlap < 0 {
		return fmt.Errorf("chunk_overlap must be non-negative, got %d", o.ChunkOverlap)
	}
	if o.ChunkOverlap >= o.ChunkSize {
		return fmt.Errorf("chunk_overlap (%d) must be smaller than chunk_size (%d)", o.ChunkOverlap, o.ChunkSize)
	}
	return nil
}

// Splitter turns a document's text into ordered pieces.
type Splitter interface {
	Name() string
	Split(ctx context.Context, text string) ([]string, error)
}

// ChunkDocument splits text and wraps each piece with its metadata.
// Indices are assigned in text order, 0 through n-1, with the constant
// total recorded on every chunk.
func ChunkDocument(ctx context.Context, s Splitter, sourceFile, text string, opts Options, preprocessed bool) ([]Chunk, error) {
	pieces, err := s.Split(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("splitting %s: %w", sourceFile, err)
	}

	chunks := make([]Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = Chunk{
			Content: p,
			Metadata: Metadata{
				SourceFile:       sourceFile,
				ChunkIndex:       i,
				TotalChunksInDoc: len(pieces),
				ChunkingStrategy: s.Name(),
				ChunkSize:        opts.ChunkSize,
				ChunkOverlap:     opts.ChunkOverlap,
				Preprocessed:     preprocessed,
			},
		}
	}
	return chunks, nil
}
