package embeddings

import (
	"context"
	"os"

	"github.com/dcamposl/ragdocs/internal/config"
)

// ollamaDimensions maps common Ollama embedding models to vector sizes.
var ollamaDimensions = map[string]int{
	"nomic-embed-text":  768,
	"mxbai-embed-large": 1024,
	"all-minilm":        384,
}

// FromConfig builds the embedder the configuration asks for, with the
// local hash embedder as the sticky fallback when the configured
// provider cannot serve.
func FromConfig(ctx context.Context, cfg *config.Config) Embedder {
	local := NewLocalEmbedder()

	var primary Embedder
	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return local
		}
		primary = NewOpenAIEmbedder(apiKey, cfg.EmbeddingModel)
	case config.ProviderOllama:
		dims, ok := ollamaDimensions[cfg.EmbeddingModel]
		if !ok {
			dims = 768
		}
		primary = NewOllamaEmbedder(cfg.EmbeddingModel, dims, os.Getenv("OLLAMA_BASE_URL"))
	default:
		return local
	}

	return NewWithFallback(ctx, primary, local)
}
