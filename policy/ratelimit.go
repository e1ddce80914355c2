package policy

import (
	"sync"
	"time"
)

// fixedWindow is a fixed-window call counter. A call is admitted iff fewer
// than max calls have been admitted since the window started; once the
// current time passes windowStart+window the counter resets atomically.
type fixedWindow struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	start  time.Time
	count  int
	now    func() time.Time
}

func newFixedWindow(max int, window time.Duration) *fixedWindow {
	return &fixedWindow{
		max:    max,
		window: window,
		now:    time.Now,
	}
}

// allow admits or rejects one call. Admission is accounted immediately;
// there is no release on completion.
func (w *fixedWindow) allow() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if w.start.IsZero() || now.Sub(w.start) >= w.window {
		w.start = now
		w.count = 0
	}
	if w.count < w.max {
		w.count++
		return true
	}
	return false
}
