package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

type rateLimitedGenerator struct {
	base    TextGenerator
	limiter *rate.Limiter
}

// WithRateLimit wraps gen so that at most requestsPerMinute calls start per
// minute. Callers wait for a slot until ctx is done. A non-positive limit
// returns gen unchanged.
func WithRateLimit(gen TextGenerator, requestsPerMinute float64) TextGenerator {
	if requestsPerMinute <= 0 {
		return gen
	}
	return &rateLimitedGenerator{
		base:    gen,
		limiter: rate.NewLimiter(rate.Limit(requestsPerMinute/60), 1),
	}
}

func (g *rateLimitedGenerator) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return ContentResponse{}, fmt.Errorf("rate limit wait: %w", err)
	}
	return g.base.GenerateContent(ctx, prompt)
}

// Close forwards to the wrapped generator when it owns resources.
func (g *rateLimitedGenerator) Close() error {
	if c, ok := g.base.(Closer); ok {
		return c.Close()
	}
	return nil
}
