package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedProvider throttles generation calls against the provider's
// requests-per-minute quota.
type RateLimitedProvider struct {
	inner   LLMProvider
	limiter *rate.Limiter
}

// NewRateLimitedProvider wraps a provider with a requests-per-minute budget.
// A non-positive rpm disables throttling.
func NewRateLimitedProvider(inner LLMProvider, rpm int) LLMProvider {
	if rpm <= 0 {
		return inner
	}
	return &RateLimitedProvider{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
	}
}

func (p *RateLimitedProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return p.inner.Generate(ctx, prompt, options...)
}
