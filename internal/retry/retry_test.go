package retry

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestDelayBoundsWithJitter(t *testing.T) {
	p := Policy{
		MaxAttempts:     3,
		BaseDelay:       1 * time.Second,
		ExponentialBase: 2.0,
		MaxDelay:        60 * time.Second,
	}

	// jitter multiplier is uniform in [0.5, 1.5], so every sample must
	// land inside those bounds around the raw exponential value
	for attempt := 1; attempt <= 3; attempt++ {
		raw := float64(p.BaseDelay) * math.Pow(p.ExponentialBase, float64(attempt-1))
		lower := time.Duration(0.5 * raw)
		upper := time.Duration(1.5 * raw)

		for range 200 {
			d := p.Delay(attempt)

			if d < lower || d > upper {
				t.Fatalf("attempt %d: delay %v outside [%v, %v]", attempt, d, lower, upper)
			}
		}
	}
}

func TestDelayCappedAtMax(t *testing.T) {
	p := Policy{
		MaxAttempts:     5,
		BaseDelay:       2 * time.Second,
		ExponentialBase: 2.0,
		MaxDelay:        10 * time.Second,
	}

	// attempt 10 would be 1024s uncapped; with the cap and max jitter it
	// can never exceed 15s
	for range 100 {
		if d := p.Delay(10); d > 15*time.Second {
			t.Fatalf("capped delay %v exceeds max with jitter", d)
		}
	}
}

func TestExpectedDelayNonDecreasing(t *testing.T) {
	p := Policy{
		MaxAttempts:     3,
		BaseDelay:       1 * time.Second,
		ExponentialBase: 2.0,
		MaxDelay:        60 * time.Second,
	}

	// in expectation the sequence doubles; sample means should be ordered
	mean := func(attempt int) time.Duration {
		var total time.Duration
		for range 500 {
			total += p.Delay(attempt)
		}
		return total / 500
	}

	m1, m2, m3 := mean(1), mean(2), mean(3)

	if m2 <= m1 || m3 <= m2 {
		t.Fatalf("expected means to increase, got %v, %v, %v", m1, m2, m3)
	}
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, ExponentialBase: 2.0, MaxDelay: time.Second}

	calls := 0
	err := p.Do(context.Background(), func(_ context.Context) error {
		calls++
		return errors.New("invalid request body")
	}, func(err error) bool {
		return false
	})

	if err == nil {
		t.Fatal("expected error")
	}

	if calls != 1 {
		t.Fatalf("expected 1 call for non-retryable error, got %d", calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, ExponentialBase: 2.0, MaxDelay: time.Second}

	calls := 0
	err := p.Do(context.Background(), func(_ context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("timeout")
		}
		return nil
	}, nil)

	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}

	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	p := Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, ExponentialBase: 2.0, MaxDelay: time.Second}

	calls := 0
	sentinel := errors.New("rate limited")

	err := p.Do(context.Background(), func(_ context.Context) error {
		calls++
		return sentinel
	}, nil)

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected last error, got %v", err)
	}

	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: 5 * time.Second, ExponentialBase: 2.0, MaxDelay: 10 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := p.Do(ctx, func(_ context.Context) error {
		return errors.New("timeout")
	}, nil)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if time.Since(start) > time.Second {
		t.Fatal("cancellation did not interrupt the backoff sleep")
	}
}
