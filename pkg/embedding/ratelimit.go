package embedding

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedProvider throttles calls to the wrapped provider. External
// embedding APIs enforce per-minute quotas; blocking here keeps a burst of
// concurrent requests from tripping them.
type RateLimitedProvider struct {
	inner   EmbeddingProvider
	limiter *rate.Limiter
}

// NewRateLimitedProvider wraps a provider with a requests-per-minute budget.
// A non-positive rpm disables throttling.
func NewRateLimitedProvider(inner EmbeddingProvider, rpm int) EmbeddingProvider {
	if rpm <= 0 {
		return inner
	}
	return &RateLimitedProvider{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
	}
}

func (p *RateLimitedProvider) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return p.inner.Generate(ctx, text, taskType)
}
