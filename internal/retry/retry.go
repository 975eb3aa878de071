package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Policy controls how many attempts an operation gets and how long to
// sleep between them. The zero value is not usable; construct with
// DefaultPolicy or fill in every field.
type Policy struct {
	MaxAttempts     int
	BaseDelay       time.Duration
	ExponentialBase float64
	MaxDelay        time.Duration
}

// sensible defaults for external API calls
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     2,
		BaseDelay:       1 * time.Second,
		ExponentialBase: 2.0,
		MaxDelay:        30 * time.Second,
	}
}

// Delay returns the sleep duration before the given attempt (1-based).
// The raw delay is BaseDelay * ExponentialBase^(attempt-1), capped at
// MaxDelay, then scaled by a jitter multiplier drawn uniformly from
// [0.5, 1.5] so simultaneous retries spread out.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	raw := float64(p.BaseDelay) * math.Pow(p.ExponentialBase, float64(attempt-1))

	if max := float64(p.MaxDelay); p.MaxDelay > 0 && raw > max {
		raw = max
	}

	jitter := 0.5 + rand.Float64() // #nosec G404 -- jitter, not crypto

	return time.Duration(raw * jitter)
}

// Do runs fn up to MaxAttempts times, sleeping the jittered delay between
// attempts. retryable decides whether a failure is worth another attempt;
// a nil retryable retries everything. The last error is returned when all
// attempts fail. Context cancellation aborts the wait immediately.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error, retryable func(error) bool) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}

		if attempt == attempts {
			break
		}

		timer := time.NewTimer(p.Delay(attempt))

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
