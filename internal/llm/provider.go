// Package llm abstracts chat-completion backends behind a single
// Provider interface. The generation layer composes a system prompt
// and a user message; providers translate that pair into whatever
// their API expects.
package llm

import "context"

// Role tags a message as instructions or user input.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one entry in the prompt sent to a provider.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest carries the prompt and sampling parameters. Model
// may be empty, in which case the provider falls back to the model it
// was constructed with. MaxTokens of zero means the provider default.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// CompletionResponse is the normalized reply. Token counts are as
// reported by the backend and may be zero when it does not report them.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// Provider is a chat-completion backend.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name identifies the backend for logs and diagnostics.
	Name() string
}

// defaultMaxTokens caps the answer length when a request does not set one.
const defaultMaxTokens = 4096
