package policy

import (
	"context"
	"encoding/json"
)

// Func is the shape of a wrapped callable: raw JSON arguments in, a typed
// result out.
type Func[R any] func(ctx context.Context, args json.RawMessage) (R, error)

// Wrapped is a pipeline-wrapped callable. The state registry is supplied per
// call so the same wrapped callable can serve multiple isolated state scopes
// (one per client session).
type Wrapped[R any] func(ctx context.Context, states *Registry, args json.RawMessage) (R, error)

// Wrap composes the policies in spec around call, outermost to innermost:
//
//  1. validate arguments (fails fast, never runs the call)
//  2. throttle: fixed-window admission, rejected calls never occupy a
//     queue slot
//  3. queue: acquire a concurrency slot, FIFO wait
//  4. cache lookup: a hit releases the slot and returns without touching
//     the timeout or retry budget
//  5. timeout guard around the whole remaining chain
//  6. retry loop around the underlying call (the timeout bounds the entire
//     retry sequence, not each attempt)
//  7. the call itself; a success is cached before the slot is released
//
// Wrap is pure: building twice from the same spec yields behaviorally
// identical pipelines. A nil or empty spec degrades to a direct call.
func Wrap[R any](name string, spec *Spec, call Func[R]) Wrapped[R] {
	if spec.Empty() {
		return func(ctx context.Context, _ *Registry, args json.RawMessage) (R, error) {
			return call(ctx, args)
		}
	}

	inner := call
	if spec.Retry != nil {
		inner = withRetry(spec.Retry.MaxAttempts, spec.Retry.Delay, inner)
	}
	if spec.Timeout != nil {
		inner = withTimeout(spec.Timeout.Limit, inner)
	}

	return func(ctx context.Context, states *Registry, args json.RawMessage) (R, error) {
		var zero R

		if err := validateArgs(args, spec.Validations); err != nil {
			return zero, err
		}

		st := states.state(name, spec)

		// State is keyed by name, so a second Wrap under the same name may
		// carry a different spec; trust the state's own primitives, never
		// this call's spec fields.
		if st.limiter != nil && !st.limiter.allow() {
			return zero, &RateLimitError{
				MaxCalls: st.limiter.max,
				Window:   st.limiter.window,
			}
		}

		if st.queue != nil {
			if err := st.queue.acquire(ctx); err != nil {
				return zero, err
			}
			defer st.queue.release()
		}

		var fp string
		if st.cache != nil {
			fp = Fingerprint(args)
			if v, ok := st.cache.get(fp); ok {
				if cached, ok := v.(R); ok {
					return cached, nil
				}
			}
		}

		v, err := inner(ctx, args)
		if err != nil {
			return zero, err
		}

		if st.cache != nil {
			st.cache.put(fp, v)
		}
		return v, nil
	}
}
