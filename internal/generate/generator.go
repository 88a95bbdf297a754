// Package generate produces grounded answers from retrieved context
// fragments. The primary LLM provider is used while it works; the first
// empty or failed completion switches the generator to the extractive
// fallback for the rest of its lifetime.
package generate

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/dcamposl/ragdocs/internal/llm"
	"github.com/dcamposl/ragdocs/internal/vectordb"
)

// InsufficientInformation is the fixed answer returned when no context
// is available. It never varies, so callers and tests can match it.
const InsufficientInformation = "I do not have enough information in the indexed documents to answer this question."

const systemPrompt = `You are a documentation assistant. Answer the question using ONLY the provided context fragments.
Cite facts from the fragments; do not invent information. If the context does not contain the answer, say so plainly.`

// Result is a generated answer with its grounding.
type Result struct {
	Answer        string   `json:"answer"`
	Sources       []string `json:"sources"`
	ContextLength int      `json:"context_length"`
	AnswerLength  int      `json:"answer_length"`
	ModelUsed     string   `json:"model_used"`
}

// Generator turns context fragments into an answer.
type Generator struct {
	provider llm.Provider
	model    string

	mu       sync.Mutex
	degraded bool
}

// New builds a Generator over the given provider. A nil provider starts
// degraded and only ever answers extractively.
func New(provider llm.Provider, model string) *Generator {
	g := &Generator{provider: provider, model: model}
	if provider == nil {
		g.degraded = true
	}
	return g
}

// Degraded reports whether the generator has fallen back to extractive
// answers.
func (g *Generator) Degraded() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.degraded
}

// Answer generates a grounded answer for the question. Fragments are
// concatenated in the order given, each labelled with its source file.
// An empty fragment list returns the fixed insufficient-information
// answer without calling any backend.
func (g *Generator) Answer(ctx context.Context, question string, fragments []vectordb.SearchResult) (*Result, error) {
	if len(fragments) == 0 {
		return &Result{
			Answer:       InsufficientInformation,
			Sources:      []string{},
			AnswerLength: len(InsufficientInformation),
			ModelUsed:    "none",
		}, nil
	}

	contextBlock, sources := buildContext(fragments)

	if !g.Degraded() {
		res, err := g.complete(ctx, question, contextBlock)
		if err == nil && strings.TrimSpace(res) != "" {
			return &Result{
				Answer:        res,
				Sources:       sources,
				ContextLength: len(contextBlock),
				AnswerLength:  len(res),
				ModelUsed:     g.model,
			}, nil
		}
		// An empty completion is how quota exhaustion shows up on some
		// backends; treat it the same as a hard failure.
		g.mu.Lock()
		g.degraded = true
		g.mu.Unlock()
		log.Printf("generate: %s failed (%v), switching to extractive answers", g.providerName(), err)
	}

	answer := extractiveAnswer(question, fragments)
	return &Result{
		Answer:        answer,
		Sources:       sources,
		ContextLength: len(contextBlock),
		AnswerLength:  len(answer),
		ModelUsed:     "extractive",
	}, nil
}

func (g *Generator) providerName() string {
	if g.provider == nil {
		return "none"
	}
	return g.provider.Name()
}

func (g *Generator) complete(ctx context.Context, question, contextBlock string) (string, error) {
	user := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlock, question)
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model: g.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: user},
		},
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// buildContext labels each fragment with its source file and returns
// the joined block plus the deduplicated source list in first-seen
// order.
func buildContext(fragments []vectordb.SearchResult) (string, []string) {
	var b strings.Builder
	var sources []string
	seen := map[string]bool{}
	for i, f := range fragments {
		if i > 0 {
			b.WriteString("\n\n")
		}
		src := f.Metadata.SourceFile
		if src == "" {
			src = "unknown"
		}
		fmt.Fprintf(&b, "[Source: %s]\n%s", src, f.Content)
		if !seen[src] {
			seen[src] = true
			sources = append(sources, src)
		}
	}
	return b.String(), sources
}
