package resilience

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy wraps a single downstream call with bounded exponential
// backoff. The delay before attempt i (1-indexed) is
// min(InitialDelay * Multiplier^(i-1), MaxDelay). On exhaustion the error
// from the last attempt is returned unwrapped.
type RetryPolicy struct {
	// MaxAttempts bounds total invocations, including the first.
	MaxAttempts int

	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration

	// MaxDelay caps the wait between attempts.
	MaxDelay time.Duration

	// Multiplier is the exponential base.
	Multiplier float64

	// RetryIf restricts which errors are retried. Nil retries every
	// error.
	RetryIf func(error) bool
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = time.Second
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 60 * time.Second
	}
	if p.Multiplier <= 0 {
		p.Multiplier = 2
	}
	return p
}

// Do invokes op until it succeeds, a non-retryable error occurs, the
// attempt budget is spent, or ctx is cancelled. Cancellation aborts the
// backoff wait promptly.
func (p RetryPolicy) Do(ctx context.Context, op func(context.Context) error) error {
	p = p.withDefaults()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.InitialDelay
	bo.MaxInterval = p.MaxDelay
	bo.Multiplier = p.Multiplier
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.Reset()

	wrapped := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(p.MaxAttempts-1)), ctx)

	return backoff.Retry(func() error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if p.RetryIf != nil && !p.RetryIf(err) {
			// Permanent errors are unwrapped by backoff before being
			// returned, so the caller sees the original error.
			return backoff.Permanent(err)
		}
		return err
	}, wrapped)
}
