package beam

import (
	"time"

	"github.com/beamkit/beam/internal/directive"
	"github.com/beamkit/beam/policy"
)

// ToolOption configures the policy spec attached to a tool at registration.
type ToolOption func(*toolOptions)

type toolOptions struct {
	spec policy.Spec
	err  error
}

// resolveToolOptions applies all option functions and returns the finished,
// immutable spec.
func resolveToolOptions(opts []ToolOption) (*policy.Spec, error) {
	var o toolOptions
	for _, fn := range opts {
		fn(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	return o.spec.Clone(), nil
}

// WithCache enables TTL memoization of successful results, keyed by a
// canonical fingerprint of the call arguments.
func WithCache(ttl time.Duration) ToolOption {
	return func(o *toolOptions) {
		o.spec.Cache = &policy.CachePolicy{TTL: ttl}
	}
}

// WithRetry enables bounded retry: up to maxAttempts attempts with a fixed
// delay between them.
func WithRetry(maxAttempts int, delay time.Duration) ToolOption {
	return func(o *toolOptions) {
		o.spec.Retry = &policy.RetryPolicy{MaxAttempts: maxAttempts, Delay: delay}
	}
}

// WithTimeout bounds the total time a call, including its retries, may take.
func WithTimeout(limit time.Duration) ToolOption {
	return func(o *toolOptions) {
		o.spec.Timeout = &policy.TimeoutPolicy{Limit: limit}
	}
}

// WithThrottle enables a fixed-window rate limit of maxCalls per window.
func WithThrottle(maxCalls int, window time.Duration) ToolOption {
	return func(o *toolOptions) {
		o.spec.Throttle = &policy.ThrottlePolicy{MaxCalls: maxCalls, Window: window}
	}
}

// WithQueue bounds concurrent executions; excess calls wait in FIFO order.
func WithQueue(maxConcurrent int) ToolOption {
	return func(o *toolOptions) {
		o.spec.Queue = &policy.QueuePolicy{MaxConcurrent: maxConcurrent}
	}
}

// WithConstraint appends an argument validation rule. Constraints run in the
// order they were added; the first failure aborts the call.
func WithConstraint(c policy.Constraint) ToolOption {
	return func(o *toolOptions) {
		o.spec.Validations = append(o.spec.Validations, c)
	}
}

// WithDeprecated attaches an informational deprecation message, surfaced in
// the tool descriptor. The tool stays callable.
func WithDeprecated(message string) ToolOption {
	return func(o *toolOptions) {
		o.spec.Deprecated = message
	}
}

// WithDirectives parses the textual policy grammar and overlays the parsed
// policies onto the spec. A malformed directive fails the registration.
//
//	beam.WithDirectives("cache 2s\nretry 2 100ms\nvalidate name required")
func WithDirectives(text string) ToolOption {
	return func(o *toolOptions) {
		parsed, err := directive.Parse(text)
		if err != nil {
			o.err = err
			return
		}
		o.spec.Merge(parsed)
	}
}
