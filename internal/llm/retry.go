package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryProvider is a decorator that retries transient errors with
// exponential backoff and jitter. Invalid responses are retried once.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	log    *logrus.Entry
}

// WithRetry wraps a Provider with retry logic. log may be nil.
func WithRetry(p Provider, cfg RetryConfig, log *logrus.Entry) Provider {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &RetryProvider{inner: p, config: cfg, log: log}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	invalidRetried := false

	var lastErr error
	for attempt := range attempts {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) {
			return nil, err
		}
		var invalid *ErrInvalidResponse
		if errors.As(err, &invalid) {
			if invalidRetried {
				return nil, err
			}
			invalidRetried = true
		}
		if attempt == attempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		r.log.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"wait":    wait,
		}).Debug("retrying llm request")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// backoff computes the wait before the next attempt, honouring a rate
// limit's RetryAfter and adding ±20% jitter.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if r.config.MaxWait > 0 {
		wait = math.Min(wait, float64(r.config.MaxWait))
	}
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}
