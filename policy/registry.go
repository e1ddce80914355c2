package policy

import "sync"

// Registry holds the mutable per-method policy state: cache entries, rate
// window and queue counters, keyed by method name. State is created lazily
// on a method's first invocation and lives until the registry itself is
// discarded (for example when a session is evicted).
//
// The registry is passed explicitly to whoever dispatches calls; it is never
// ambient package state.
type Registry struct {
	mu     sync.Mutex
	states map[string]*methodState
}

type methodState struct {
	cache   *memoCache
	limiter *fixedWindow
	queue   *waitQueue
}

// NewRegistry creates an empty state registry.
func NewRegistry() *Registry {
	return &Registry{states: make(map[string]*methodState)}
}

// state returns the method's state, creating the primitives its spec calls
// for on first use. The same name always maps to the same state instance,
// shared by every call to that method.
func (r *Registry) state(name string, spec *Spec) *methodState {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[name]
	if ok {
		return st
	}
	st = &methodState{}
	if spec.Cache != nil {
		st.cache = newMemoCache(spec.Cache.TTL)
	}
	if spec.Throttle != nil {
		st.limiter = newFixedWindow(spec.Throttle.MaxCalls, spec.Throttle.Window)
	}
	if spec.Queue != nil {
		st.queue = newWaitQueue(spec.Queue.MaxConcurrent)
	}
	r.states[name] = st
	return st
}

// Len reports how many methods have live state.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}
