package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .ragdocs.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to ragdocs! Let's configure your service.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. LLM provider.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "anthropic", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)
	cfg.Model = defaultModelFor(cfg.Provider)

	// 2. Embedding provider.
	embedPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{"openai", "ollama", "local"},
	}
	_, embedStr, err := embedPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding provider selection: %w", err)
	}
	cfg.EmbeddingProvider = ProviderType(embedStr)
	cfg.EmbeddingModel = defaultEmbeddingModelFor(cfg.EmbeddingProvider)

	// 3. HTTP port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("must be a port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 4. Data directory for vector collections.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory for vector collections",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 5. Google Drive credentials (optional).
	drivePrompt := promptui.Prompt{
		Label:   "Google service account JSON path (blank to skip Drive support)",
		Default: "",
	}
	if cfg.DriveCredentials, err = drivePrompt.Run(); err != nil {
		return nil, fmt.Errorf("drive credentials: %w", err)
	}

	// 6. Reranker backend.
	rerankPrompt := promptui.Select{
		Label: "Select reranker",
		Items: []string{
			"lexical — offline term-overlap scoring",
			"cohere  — hosted cross-encoder (needs COHERE_API_KEY)",
		},
	}
	rerankIdx, _, err := rerankPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("reranker selection: %w", err)
	}
	if rerankIdx == 1 {
		cfg.Rerank.Provider = "cohere"
	}

	// Check for API keys.
	for _, p := range []ProviderType{cfg.Provider, cfg.EmbeddingProvider} {
		envVar := APIKeyEnvVar(p)
		if envVar != "" && os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running ragdocs serve.\n", envVar)
		}
	}

	configPath := ".ragdocs.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

// defaultModelFor returns the chat model used when the wizard picks a provider.
func defaultModelFor(p ProviderType) string {
	switch p {
	case ProviderAnthropic:
		return "claude-haiku-4-5-20251001"
	case ProviderOllama:
		return "llama3"
	default:
		return "gpt-4o-mini"
	}
}

// defaultEmbeddingModelFor returns the embedding model for a provider.
func defaultEmbeddingModelFor(p ProviderType) string {
	switch p {
	case ProviderOllama:
		return "nomic-embed-text"
	case ProviderLocal:
		return "hash-256"
	default:
		return "text-embedding-3-small"
	}
}
