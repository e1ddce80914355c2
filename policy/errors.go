package policy

import (
	"fmt"
	"time"
)

// ValidationError reports the first argument constraint that failed. The
// underlying call was never invoked.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("policy: validation failed for field %q: %s", e.Field, e.Constraint)
}

// RateLimitError reports that admission was rejected by the fixed-window
// rate limiter. Rate-limited calls are never queued and never retried.
type RateLimitError struct {
	MaxCalls int
	Window   time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("policy: rate limit exceeded (%d calls per %s)", e.MaxCalls, e.Window)
}

// TimeoutError reports that the deadline fired before the call completed.
// The in-flight call is abandoned, not cancelled; its eventual result is
// discarded.
type TimeoutError struct {
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("policy: call exceeded timeout of %s", e.Limit)
}

// RetryError wraps the most recent underlying error after all attempts were
// exhausted.
type RetryError struct {
	Attempts int
	Err      error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("policy: call failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryError) Unwrap() error { return e.Err }
