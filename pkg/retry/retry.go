// ABOUTME: Bounded retry with exponential backoff for provider calls
// ABOUTME: Terminal failures (bad credentials, validation, cancellation) are never retried

package retry

import (
	"context"
	"time"

	coreerrors "newshub-core/core/errors"
)

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Policy bounds a retried operation
type Policy struct {
	// MaxRetries is the number of retries after the first attempt
	MaxRetries int

	// BaseDelay is the wait after the first failure; it doubles each time
	BaseDelay time.Duration

	// Sleep defaults to a context-aware timer
	Sleep Sleeper

	// OnRetry is called before each backoff with the attempt that failed
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Backoff returns the delay after the given zero-based failed attempt
func Backoff(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(1<<uint(attempt))
}

// Do runs op up to MaxRetries+1 times.
// It returns nil on the first success, the terminal error immediately, or the
// last error once attempts are exhausted.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = timerSleep
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return &coreerrors.CancelledError{Err: err}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if coreerrors.IsTerminal(lastErr) || attempt == p.MaxRetries {
			return lastErr
		}

		delay := Backoff(p.BaseDelay, attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, lastErr)
		}
		if err := sleep(ctx, delay); err != nil {
			return &coreerrors.CancelledError{Err: err}
		}
	}
	return lastErr
}

func timerSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
