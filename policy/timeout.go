package policy

import (
	"context"
	"encoding/json"
	"time"
)

// withTimeout races call against a deadline timer. If the timer fires first
// the caller gets a TimeoutError; the call itself keeps running in its own
// goroutine and its eventual outcome is discarded. Cooperative cancellation
// is not assumed, so the overrun call is responsible for its own cleanup.
func withTimeout[R any](limit time.Duration, call Func[R]) Func[R] {
	return func(ctx context.Context, args json.RawMessage) (R, error) {
		type outcome struct {
			value R
			err   error
		}
		// Buffered so the abandoned goroutine can always deliver and exit.
		done := make(chan outcome, 1)
		go func() {
			v, err := call(ctx, args)
			done <- outcome{value: v, err: err}
		}()

		timer := time.NewTimer(limit)
		defer timer.Stop()

		var zero R
		select {
		case o := <-done:
			return o.value, o.err
		case <-timer.C:
			return zero, &TimeoutError{Limit: limit}
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}
