package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOllama    ProviderType = "ollama"
	ProviderLocal     ProviderType = "local"
)

// ChunkingDefaults are applied when an ingestion request omits parts of
// its chunking configuration.
type ChunkingDefaults struct {
	Strategy     string   `yaml:"strategy" koanf:"strategy"`
	ChunkSize    int      `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap" koanf:"chunk_overlap"`
	Separators   []string `yaml:"separators" koanf:"separators"`
}

// EmbeddingConfig controls batching against embedding provider rate limits.
type EmbeddingConfig struct {
	BatchSize       int `yaml:"batch_size" koanf:"batch_size"`
	CooldownSeconds int `yaml:"cooldown_seconds" koanf:"cooldown_seconds"`
}

// DownloadConfig bounds per-document downloads from a storage provider.
type DownloadConfig struct {
	TimeoutPerFileSeconds int      `yaml:"timeout_per_file_seconds" koanf:"timeout_per_file_seconds"`
	MaxFileSizeMB         int      `yaml:"max_file_size_mb" koanf:"max_file_size_mb"`
	FileExtensions        []string `yaml:"file_extensions" koanf:"file_extensions"`
}

// RerankConfig selects the cross-encoder backend used to rerank search
// results. Provider is "cohere" or "lexical".
type RerankConfig struct {
	Provider string `yaml:"provider" koanf:"provider"`
	Model    string `yaml:"model" koanf:"model"`
}

// Config is the top-level ragdocs configuration, corresponding to .ragdocs.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`

	Port            int    `yaml:"port" koanf:"port"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	DataDir         string `yaml:"data_dir" koanf:"data_dir"`
	DocsDir         string `yaml:"docs_dir" koanf:"docs_dir"`
	LogDir          string `yaml:"log_dir" koanf:"log_dir"`

	// DriveCredentials points at a Google service account JSON file.
	// Empty means the Drive storage provider is unavailable.
	DriveCredentials string `yaml:"drive_credentials" koanf:"drive_credentials"`

	Chunking  ChunkingDefaults `yaml:"chunking" koanf:"chunking"`
	Embedding EmbeddingConfig  `yaml:"embedding" koanf:"embedding"`
	Download  DownloadConfig   `yaml:"download" koanf:"download"`
	Rerank    RerankConfig     `yaml:"rerank" koanf:"rerank"`
}
