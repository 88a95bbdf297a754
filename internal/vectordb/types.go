package vectordb

import (
	"strconv"

	"github.com/dcamposl/ragdocs/internal/chunker"
)

// Fragment is a stored chunk as returned from a collection.
type Fragment struct {
	ID       string
	Content  string
	Metadata chunker.Metadata
}

// SearchResult pairs a fragment with its similarity score. Rerank
// fields are filled in additively by the rerank package: RerankScore
// stays nil when no reranking ran, so unknown is distinguishable from
// a score of zero.
type SearchResult struct {
	Fragment
	Similarity     float32
	RerankScore    *float64
	RerankPosition int
}

// metadataToMap converts chunk metadata to the flat map[string]string
// chromem stores.
func metadataToMap(m chunker.Metadata) map[string]string {
	return map[string]string{
		"source_file":         m.SourceFile,
		"chunk_index":         strconv.Itoa(m.ChunkIndex),
		"total_chunks_in_doc": strconv.Itoa(m.TotalChunksInDoc),
		"chunking_strategy":   m.ChunkingStrategy,
		"chunk_size":          strconv.Itoa(m.ChunkSize),
		"chunk_overlap":       strconv.Itoa(m.ChunkOverlap),
		"preprocessed":        strconv.FormatBool(m.Preprocessed),
	}
}

// mapToMetadata converts a flat map[string]string back to chunk metadata.
func mapToMetadata(m map[string]string) chunker.Metadata {
	chunkIndex, _ := strconv.Atoi(m["chunk_index"])
	totalChunks, _ := strconv.Atoi(m["total_chunks_in_doc"])
	chunkSize, _ := strconv.Atoi(m["chunk_size"])
	chunkOverlap, _ := strconv.Atoi(m["chunk_overlap"])
	preprocessed, _ := strconv.ParseBool(m["preprocessed"])

	return chunker.Metadata{
		SourceFile:       m["source_file"],
		ChunkIndex:       chunkIndex,
		TotalChunksInDoc: totalChunks,
		ChunkingStrategy: m["chunking_strategy"],
		ChunkSize:        chunkSize,
		ChunkOverlap:     chunkOverlap,
		Preprocessed:     preprocessed,
	}
}
