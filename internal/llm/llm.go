// Package llm adapts hosted language-model APIs to a single text-completion interface.
package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Request is one completion request. Zero Temperature and MaxTokens select provider defaults.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Provider returns a free-form text completion for a request.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// Config selects and tunes a provider.
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	RatePerSec  float64
	Burst       int
	MaxTokens   int
	Temperature float32
}

const defaultMaxTokens = 1000

// New builds the configured provider, bounded by cfg.Timeout and paced by cfg.RatePerSec.
func New(ctx context.Context, cfg Config) (Provider, error) {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case "anthropic":
		p = newAnthropic(cfg)
	case "gemini":
		p, err = newGemini(ctx, cfg)
	case "ollama":
		p, err = newOllama(cfg)
	case "openai", "":
		// openai and other OpenAI-compatible services
		p = newOpenAI(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	if cfg.RatePerSec > 0 {
		p = RateLimited(p, rate.NewLimiter(rate.Limit(cfg.RatePerSec), max(cfg.Burst, 1)))
	}
	return p, nil
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
