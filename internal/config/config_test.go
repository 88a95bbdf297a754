package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.Provider)
	}
	if cfg.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Port)
	}
	if cfg.Chunking.ChunkSize != 1000 {
		t.Errorf("expected default chunk_size 1000, got %d", cfg.Chunking.ChunkSize)
	}
	if cfg.Chunking.ChunkOverlap != 200 {
		t.Errorf("expected default chunk_overlap 200, got %d", cfg.Chunking.ChunkOverlap)
	}
	if cfg.Embedding.BatchSize != 90 {
		t.Errorf("expected default batch_size 90, got %d", cfg.Embedding.BatchSize)
	}
	if cfg.Download.TimeoutPerFileSeconds != 300 {
		t.Errorf("expected default per-file timeout 300, got %d", cfg.Download.TimeoutPerFileSeconds)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ragdocs.yml")

	original := DefaultConfig()
	original.Provider = ProviderAnthropic
	original.Model = "claude-haiku-4-5-20251001"
	original.Port = 9090
	original.DataDir = "elsewhere/collections"
	original.Chunking.ChunkSize = 512
	original.Chunking.ChunkOverlap = 64
	original.Download.FileExtensions = []string{"txt", "md"}

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if loaded.DataDir != original.DataDir {
		t.Errorf("data_dir: got %q, want %q", loaded.DataDir, original.DataDir)
	}
	if loaded.Chunking.ChunkSize != original.Chunking.ChunkSize {
		t.Errorf("chunk_size: got %d, want %d", loaded.Chunking.ChunkSize, original.Chunking.ChunkSize)
	}
	if len(loaded.Download.FileExtensions) != len(original.Download.FileExtensions) {
		t.Errorf("file_extensions length: got %d, want %d",
			len(loaded.Download.FileExtensions), len(original.Download.FileExtensions))
	}
	for i, v := range loaded.Download.FileExtensions {
		if v != original.Download.FileExtensions[i] {
			t.Errorf("file_extensions[%d]: got %q, want %q", i, v, original.Download.FileExtensions[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider, got %q", cfg.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Override provider via env var.
	os.Setenv("RAGDOCS_PROVIDER", "anthropic")
	defer os.Unsetenv("RAGDOCS_PROVIDER")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Provider != ProviderAnthropic {
		t.Errorf("env override failed: got %q, want %q", loaded.Provider, ProviderAnthropic)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalidProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "invalid"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid provider")
	}
}

func TestValidateEmptyProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty provider")
	}
}

func TestValidateEmptyModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty model")
	}
}

func TestValidateLocalLLMProviderRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderLocal
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error: local is only an embedding provider")
	}
}

func TestValidateLocalEmbeddingProviderAccepted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmbeddingProvider = ProviderLocal
	if err := cfg.Validate(); err != nil {
		t.Errorf("local embedding provider should be valid, got: %v", err)
	}
}

func TestValidateOverlapNotSmallerThanSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chunking.ChunkSize = 100
	cfg.Chunking.ChunkOverlap = 100
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error when overlap equals chunk_size")
	}

	cfg.Chunking.ChunkOverlap = 150
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error when overlap exceeds chunk_size")
	}
}

func TestValidateBadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for port 0")
	}
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for out-of-range port")
	}
}

func TestValidateBadRerankProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rerank.Provider = "bm25"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown rerank provider")
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{ProviderOllama, ""},
		{ProviderLocal, ""},
	}
	for _, tt := range tests {
		got := APIKeyEnvVar(tt.provider)
		if got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}
