// internal/agents/retry.go
package agents

import (
	"context"
	"time"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
	apperrors "github.com/neeleshsethi/brand-intelligence-platform/internal/common/errors"
)

// RetryPolicy is the retry contract for provider calls: up to MaxAttempts tries, waiting
// BaseWait·2^(n-1) capped at MaxWait after the n-th failure.
type RetryPolicy struct {
	MaxAttempts int
	BaseWait    time.Duration
	MaxWait     time.Duration
	// Retryable decides whether an error is worth another attempt. Nil uses the error code:
	// unclassified, provider and schema failures retry, client and mock failures do not.
	Retryable func(error) bool

	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy is three attempts starting at two seconds, capped at ten.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseWait:    2 * time.Second,
		MaxWait:     10 * time.Second,
	}
}

// RetryPolicyFromConfig maps the retry config section.
func RetryPolicyFromConfig(cfg config.RetryConfig) RetryPolicy {
	base, maxWait := cfg.RetryWaits()
	return RetryPolicy{
		MaxAttempts: cfg.MaxAttempts,
		BaseWait:    base,
		MaxWait:     maxWait,
	}
}

// Delay returns the wait after the given failed attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.BaseWait
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxWait > 0 && d >= p.MaxWait {
			return p.MaxWait
		}
	}
	if p.MaxWait > 0 && d > p.MaxWait {
		return p.MaxWait
	}
	return d
}

// Do runs fn until it succeeds, the attempts run out, the error is not retryable, or ctx is
// done. The last error from fn is returned unchanged. onAttempt, if set, sees every attempt.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error, onAttempt func(attempt int, err error)) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = apperrors.IsRetryable
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if onAttempt != nil {
			onAttempt(attempt, lastErr)
		}
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		if err := sleep(ctx, p.Delay(attempt)); err != nil {
			return lastErr
		}
	}
	return lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
