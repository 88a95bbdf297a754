package embeddings

import (
	"context"
	"log"
	"time"
)

const probeTimeout = 15 * time.Second

// NewWithFallback probes the primary embedder once with a trivial text.
// If the probe fails (no key, quota exhausted, backend unreachable) the
// fallback is selected instead. The choice is made exactly once, at
// construction, and holds for the lifetime of the returned Embedder, so
// a collection is never written with mixed dimensionalities.
func NewWithFallback(ctx context.Context, primary, fallback Embedder) Embedder {
	if primary == nil {
		return fallback
	}

	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if _, err := primary.Embed(pctx, []string{"ping"}); err != nil {
		log.Printf("embeddings: %s unavailable (%v), using %s", primary.Name(), err, fallback.Name())
		return fallback
	}
	return primary
}
