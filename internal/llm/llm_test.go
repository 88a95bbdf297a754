package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// stubProvider records every request and replies with a canned response.
type stubProvider struct {
	mu       sync.Mutex
	requests []CompletionRequest
	response *CompletionResponse
	err      error
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		response: &CompletionResponse{
			Content:      "stub answer",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "stub-model",
			FinishReason: "stop",
		},
	}
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s *stubProvider) completions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func TestStubProviderRecordsRequests(t *testing.T) {
	stub := newStubProvider()

	resp, err := stub.Complete(context.Background(), CompletionRequest{
		Model:    "m",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "stub answer" {
		t.Errorf("content = %q", resp.Content)
	}
	if stub.completions() != 1 || stub.requests[0].Model != "m" {
		t.Errorf("recorded %d requests, first model %q", stub.completions(), stub.requests[0].Model)
	}
}

func TestStubProviderPropagatesErrors(t *testing.T) {
	stub := newStubProvider()
	stub.err = errors.New("backend down")

	if _, err := stub.Complete(context.Background(), CompletionRequest{}); err == nil {
		t.Fatal("want the provider error back")
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name         string
		providerType string
		env          map[string]string
		wantName     string
		wantErr      bool
	}{
		{
			name:         "openai with key",
			providerType: "openai",
			env:          map[string]string{"OPENAI_API_KEY": "sk-test"},
			wantName:     "openai",
		},
		{
			name:         "openai without key",
			providerType: "openai",
			env:          map[string]string{"OPENAI_API_KEY": ""},
			wantErr:      true,
		},
		{
			name:         "anthropic with key",
			providerType: "anthropic",
			env:          map[string]string{"ANTHROPIC_API_KEY": "test-key"},
			wantName:     "anthropic",
		},
		{
			name:         "anthropic without key",
			providerType: "anthropic",
			env:          map[string]string{"ANTHROPIC_API_KEY": ""},
			wantErr:      true,
		},
		{
			name:         "ollama needs no key",
			providerType: "ollama",
			env:          map[string]string{"OLLAMA_HOST": ""},
			wantName:     "ollama",
		},
		{
			name:         "unknown provider",
			providerType: "mystery",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			p, err := NewProvider(tt.providerType, "some-model")
			if tt.wantErr {
				if err == nil {
					t.Fatal("want an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("name = %q, want %q", p.Name(), tt.wantName)
			}
		})
	}
}

func TestNewProviderOllamaDefaultHost(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")

	p, err := NewProvider("ollama", "llama3")
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	op, ok := p.(*OllamaProvider)
	if !ok {
		t.Fatalf("provider type = %T", p)
	}
	if op.baseURL != defaultLocalOllamaHost {
		t.Errorf("baseURL = %q", op.baseURL)
	}
}

func TestRateLimiterDelegates(t *testing.T) {
	stub := newStubProvider()
	limited := NewRateLimitedProvider(stub, 60)

	resp, err := limited.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "stub answer" {
		t.Errorf("content = %q", resp.Content)
	}
	if limited.Name() != "stub" {
		t.Errorf("name = %q, want the wrapped provider's name", limited.Name())
	}
}

func TestRateLimiterBlocksPastBudget(t *testing.T) {
	stub := newStubProvider()
	limited := NewRateLimitedProvider(stub, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	req := CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}}

	// The bucket starts full, so the budget goes through at once.
	for i := 0; i < 2; i++ {
		if _, err := limited.Complete(ctx, req); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}

	// The next call has no token and must give up when the context does.
	if _, err := limited.Complete(ctx, req); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if stub.completions() != 2 {
		t.Errorf("backend saw %d completions, want 2", stub.completions())
	}
}
