// Package retry runs calls to external services with exponential backoff.
package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// Classifier decides whether err is worth another attempt. A positive wait overrides the
// computed backoff (for example when the server says when its rate limit resets).
type Classifier func(err error) (retry bool, wait time.Duration)

type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
	Classify    Classifier
}

func DefaultConfig(classify Classifier) Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    30 * time.Second,
		Jitter:      true,
		Classify:    classify,
	}
}

// Do executes fn until it succeeds, returns a non-retryable error, the attempts run out,
// or ctx is done. The last error from fn is returned.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	attempts := max(cfg.MaxAttempts, 1)

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}

		retry, wait := false, time.Duration(0)
		if cfg.Classify != nil {
			retry, wait = cfg.Classify(lastErr)
		}
		if !retry || attempt == attempts-1 {
			break
		}

		if wait <= 0 {
			wait = backoff(cfg, attempt)
		}
		if cfg.MaxDelay > 0 && wait > cfg.MaxDelay {
			wait = cfg.MaxDelay
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return lastErr
}

func backoff(cfg Config, attempt int) time.Duration {
	d := time.Duration(float64(cfg.BaseDelay) * math.Pow(2, float64(attempt)))
	if cfg.Jitter {
		d = time.Duration(float64(d) * (0.5 + rand.Float64()*0.5))
	}
	return d
}
