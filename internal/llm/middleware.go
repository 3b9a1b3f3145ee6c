package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

type timeoutProvider struct {
	Provider
	timeout time.Duration
}

// WithTimeout bounds every call of p to d.
func WithTimeout(p Provider, d time.Duration) Provider {
	return &timeoutProvider{Provider: p, timeout: d}
}

func (p *timeoutProvider) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.Provider.Complete(ctx, req)
}

type rateLimitedProvider struct {
	Provider
	limiter *rate.Limiter
}

// RateLimited waits for limiter before each call of p.
func RateLimited(p Provider, limiter *rate.Limiter) Provider {
	return &rateLimitedProvider{Provider: p, limiter: limiter}
}

func (p *rateLimitedProvider) Complete(ctx context.Context, req Request) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return p.Provider.Complete(ctx, req)
}

// Observer receives the outcome of each call.
type Observer interface {
	ObserveLLMCall(provider string, d time.Duration, err error)
}

type observedProvider struct {
	Provider
	obs Observer
}

// Observed reports every call of p to obs.
func Observed(p Provider, obs Observer) Provider {
	return &observedProvider{Provider: p, obs: obs}
}

func (p *observedProvider) Complete(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	out, err := p.Provider.Complete(ctx, req)
	p.obs.ObserveLLMCall(p.Name(), time.Since(start), err)
	return out, err
}
