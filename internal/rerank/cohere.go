package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const cohereRerankURL = "https://api.cohere.ai/v1/rerank"

// CohereScorer calls Cohere's hosted rerank endpoint.
type CohereScorer struct {
	apiKey string
	model  string
	client *http.Client
}

type cohereRerankRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	Model     string   `json:"model"`
	TopN      int      `json:"top_n,omitempty"`
}

type cohereRerankResponse struct {
	Results []cohereRerankResult `json:"results"`
}

type cohereRerankResult struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

// NewCohereScorer builds a scorer against the Cohere API.
func NewCohereScorer(apiKey, model string) (*CohereScorer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("cohere api key is empty")
	}
	if model == "" {
		model = "rerank-english-v3.0"
	}
	return &CohereScorer{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (s *CohereScorer) Name() string { return "cohere/" + s.model }

func (s *CohereScorer) Score(ctx context.Context, query string, documents []string) ([]float64, error) {
	// Cohere caps requests at 1000 documents.
	const maxDocs = 1000
	if len(documents) > maxDocs {
		documents = documents[:maxDocs]
	}

	body, err := json.Marshal(cohereRerankRequest{
		Query:     query,
		Documents: documents,
		Model:     s.model,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cohereRerankURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rerank request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read rerank response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rerank API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed cohereRerankResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse rerank response: %w", err)
	}

	// Responses come back sorted by relevance; realign to input order.
	scores := make([]float64, len(documents))
	for _, r := range parsed.Results {
		if r.Index >= 0 && r.Index < len(scores) {
			scores[r.Index] = r.RelevanceScore
		}
	}
	return scores, nil
}
