package policy

import (
	"context"
	"encoding/json"
	"time"
)

// withRetry attempts call up to maxAttempts times with a fixed delay between
// attempts. Any error triggers the next attempt; once attempts are exhausted
// the most recent error propagates wrapped in a RetryError.
func withRetry[R any](maxAttempts int, delay time.Duration, call Func[R]) Func[R] {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return func(ctx context.Context, args json.RawMessage) (R, error) {
		var zero R
		var last error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if attempt > 1 && delay > 0 {
				timer := time.NewTimer(delay)
				select {
				case <-timer.C:
				case <-ctx.Done():
					timer.Stop()
					return zero, ctx.Err()
				}
			}
			v, err := call(ctx, args)
			if err == nil {
				return v, nil
			}
			last = err
		}
		return zero, &RetryError{Attempts: maxAttempts, Err: last}
	}
}
