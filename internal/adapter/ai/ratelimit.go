package ai

import (
	"fmt"

	"github.com/fairyhunter13/resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/resume-screener/internal/domain"
	"github.com/fairyhunter13/resume-screener/internal/service/ratelimiter"
)

type rateLimitedClient struct {
	base    domain.ScoringClient
	limiter ratelimiter.Limiter
}

// WithRateLimit spends one token of the provider's bucket per call. When the
// bucket is empty Complete fails with domain.ErrUpstreamRateLimit without
// calling base. Limiter errors fail open.
func WithRateLimit(base domain.ScoringClient, limiter ratelimiter.Limiter) domain.ScoringClient {
	if base == nil || limiter == nil {
		return base
	}
	return &rateLimitedClient{base: base, limiter: limiter}
}

func (c *rateLimitedClient) Complete(ctx domain.Context, prompt string) (string, error) {
	allowed, retryAfter, err := c.limiter.Allow(ctx, c.base.Provider(), 1)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("rate limiter unavailable", "provider", c.base.Provider(), "error", err)
	}
	if !allowed {
		return "", fmt.Errorf("%w: %s local quota exhausted, retry after %s", domain.ErrUpstreamRateLimit, c.base.Provider(), retryAfter)
	}
	return c.base.Complete(ctx, prompt)
}

func (c *rateLimitedClient) Provider() string { return c.base.Provider() }
