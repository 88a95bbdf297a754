package config

// DefaultExtensions are the file extensions accepted for download when a
// request does not narrow them.
var DefaultExtensions = []string{"pdf", "txt", "docx", "md"}

// DefaultSeparators is the separator hierarchy for the recursive
// character splitter, from coarsest to finest.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o-mini",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		Port:              8000,
		DataDir:           "data/collections",
		DocsDir:           "data/docs",
		LogDir:            "logs",
		Chunking: ChunkingDefaults{
			Strategy:     "recursive_character",
			ChunkSize:    1000,
			ChunkOverlap: 200,
			Separators:   DefaultSeparators,
		},
		Embedding: EmbeddingConfig{
			BatchSize:       90,
			CooldownSeconds: 65,
		},
		Download: DownloadConfig{
			TimeoutPerFileSeconds: 300,
			MaxFileSizeMB:         50,
			FileExtensions:        DefaultExtensions,
		},
		Rerank: RerankConfig{
			Provider: "lexical",
			Model:    "rerank-english-v3.0",
		},
	}
}
