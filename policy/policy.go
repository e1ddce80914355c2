// Package policy implements the declarative policy pipeline that wraps tool
// invocations: result caching, bounded retries, timeouts, fixed-window rate
// limiting, concurrency-limited queueing, and input validation.
//
// A [Spec] declares which policies apply to one method. [Wrap] composes the
// configured policies around a callable in a fixed order; the mutable
// per-method state (cache entries, rate window, queue counters) lives in an
// explicit [Registry] owned by the caller, never in package globals.
package policy

import "time"

// CachePolicy enables TTL memoization of successful results.
type CachePolicy struct {
	TTL time.Duration
}

// RetryPolicy enables bounded retry with a fixed delay between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// TimeoutPolicy bounds the total time a call (including its retries) may take.
type TimeoutPolicy struct {
	Limit time.Duration
}

// ThrottlePolicy enables a fixed-window rate limit. Calls beyond MaxCalls
// within one window are rejected immediately, never queued.
type ThrottlePolicy struct {
	MaxCalls int
	Window   time.Duration
}

// QueuePolicy bounds how many calls may run concurrently. Excess calls wait
// in FIFO order; nothing is ever dropped.
type QueuePolicy struct {
	MaxConcurrent int
}

// Spec is the full set of policies attached to one method. A nil field means
// the corresponding policy is disabled. Specs are built once at registration
// time and must not be mutated afterwards.
type Spec struct {
	Cache       *CachePolicy
	Retry       *RetryPolicy
	Timeout     *TimeoutPolicy
	Throttle    *ThrottlePolicy
	Queue       *QueuePolicy
	Validations []Constraint

	// Deprecated carries an informational deprecation message. It has no
	// runtime effect beyond being surfaced in tool descriptors.
	Deprecated string
}

// Empty reports whether the spec enables no policy at all.
func (s *Spec) Empty() bool {
	return s == nil || (s.Cache == nil && s.Retry == nil && s.Timeout == nil &&
		s.Throttle == nil && s.Queue == nil && len(s.Validations) == 0)
}

// Clone returns a deep copy of the spec. Registration clones the caller's
// spec so later mutation of the original cannot affect a live pipeline.
func (s *Spec) Clone() *Spec {
	if s == nil {
		return nil
	}
	out := &Spec{Deprecated: s.Deprecated}
	if s.Cache != nil {
		c := *s.Cache
		out.Cache = &c
	}
	if s.Retry != nil {
		r := *s.Retry
		out.Retry = &r
	}
	if s.Timeout != nil {
		t := *s.Timeout
		out.Timeout = &t
	}
	if s.Throttle != nil {
		t := *s.Throttle
		out.Throttle = &t
	}
	if s.Queue != nil {
		q := *s.Queue
		out.Queue = &q
	}
	if len(s.Validations) > 0 {
		out.Validations = make([]Constraint, len(s.Validations))
		copy(out.Validations, s.Validations)
	}
	return out
}

// Merge overlays other onto s: non-nil policies in other replace the ones in
// s, validations are appended, and a non-empty deprecation message wins.
func (s *Spec) Merge(other *Spec) {
	if other == nil {
		return
	}
	if other.Cache != nil {
		c := *other.Cache
		s.Cache = &c
	}
	if other.Retry != nil {
		r := *other.Retry
		s.Retry = &r
	}
	if other.Timeout != nil {
		t := *other.Timeout
		s.Timeout = &t
	}
	if other.Throttle != nil {
		t := *other.Throttle
		s.Throttle = &t
	}
	if other.Queue != nil {
		q := *other.Queue
		s.Queue = &q
	}
	s.Validations = append(s.Validations, other.Validations...)
	if other.Deprecated != "" {
		s.Deprecated = other.Deprecated
	}
}
