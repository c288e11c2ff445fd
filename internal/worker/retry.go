package worker

import (
	"context"
	"fmt"
	"time"
)

type backoff func(attempt int) time.Duration

// linearBackoff waits 500ms, 1s, 1.5s, ... between attempts.
func linearBackoff(attempt int) time.Duration {
	return time.Duration(500*(attempt+1)) * time.Millisecond
}

// retry calls fn up to attempts times, sleeping between failures. It gives up
// early when ctx is done.
func retry[T any](ctx context.Context, attempts int, wait backoff, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts = max(attempts, 1)
	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}

		timer := time.NewTimer(wait(i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("after %d attempts: %w", i+1, ctx.Err())
		case <-timer.C:
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
