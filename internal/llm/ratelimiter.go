package llm

import (
	"context"
	"sync"
	"time"
)

// rateLimitedProvider is a Provider that throttles Complete calls to a
// fixed number of requests per minute using a token bucket. Tokens
// refill continuously in proportion to elapsed time; a blocked call
// polls until a token appears or its context is cancelled.
type rateLimitedProvider struct {
	inner Provider
	rpm   int

	mu       sync.Mutex
	tokens   int
	lastFill time.Time
}

// NewRateLimitedProvider throttles the provider to at most rpm
// completions per minute. The bucket starts full, so a burst up to rpm
// goes through immediately.
func NewRateLimitedProvider(inner Provider, rpm int) Provider {
	return &rateLimitedProvider{
		inner:    inner,
		rpm:      rpm,
		tokens:   rpm,
		lastFill: time.Now(),
	}
}

func (r *rateLimitedProvider) Name() string { return r.inner.Name() }

func (r *rateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	return r.inner.Complete(ctx, req)
}

func (r *rateLimitedProvider) acquire(ctx context.Context) error {
	for {
		if r.takeToken() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (r *rateLimitedProvider) takeToken() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	refill := int(now.Sub(r.lastFill).Seconds() * float64(r.rpm) / 60.0)
	if refill > 0 {
		r.tokens = min(r.tokens+refill, r.rpm)
		r.lastFill = now
	}
	if r.tokens == 0 {
		return false
	}
	r.tokens--
	return true
}
