package embeddings

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

const localDimensions = 256

// LocalEmbedder produces deterministic embeddings without any backend.
// Each token is hashed into a fixed-size bag-of-words vector which is
// then L2-normalized, so identical texts always embed identically and
// texts sharing vocabulary land near each other. Quality is far below a
// real model; it exists so ingestion and retrieval keep working when no
// embedding provider is reachable.
type LocalEmbedder struct{}

// NewLocalEmbedder returns the offline hash embedder.
func NewLocalEmbedder() *LocalEmbedder {
	return &LocalEmbedder{}
}

func (e *LocalEmbedder) Name() string {
	return "local/hash-256"
}

func (e *LocalEmbedder) Dimensions() int {
	return localDimensions
}

func (e *LocalEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = hashEmbed(text)
	}
	return results, nil
}

func hashEmbed(text string) []float32 {
	vec := make([]float32, localDimensions)
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		vec[0] = 1
		return vec
	}

	for _, tok := range tokens {
		tok = strings.Trim(tok, ".,;:!?\"'()[]{}")
		if tok == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[h.Sum32()%localDimensions]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
