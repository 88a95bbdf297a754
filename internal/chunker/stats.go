package chunker

// Stats summarizes a chunking run, recorded in the job record.
type Stats struct {
	TotalChunks       int            `json:"total_chunks"`
	TotalDocuments    int            `json:"total_documents"`
	AvgChunkSize      float64        `json:"avg_chunk_size"`
	MinChunkSize      int            `json:"min_chunk_size"`
	MaxChunkSize      int            `json:"max_chunk_size"`
	ChunksPerDocument map[string]int `json:"chunks_per_document"`
}

// ComputeStats aggregates chunk sizes and per-document counts.
func ComputeStats(chunks []Chunk) Stats {
	s := Stats{ChunksPerDocument: map[string]int{}}
	if len(chunks) == 0 {
		return s
	}

	s.TotalChunks = len(chunks)
	s.MinChunkSize = len(chunks[0].Content)
	total := 0
	for _, c := range chunks {
		n := len(c.Content)
		total += n
		if n < s.MinChunkSize {
			s.MinChunkSize = n
		}
		if n > s.MaxChunkSize {
			s.MaxChunkSize = n
		}
		s.ChunksPerDocument[c.Metadata.SourceFile]++
	}
	s.AvgChunkSize = float64(total) / float64(len(chunks))
	s.TotalDocuments = len(s.ChunksPerDocument)
	return s
}
