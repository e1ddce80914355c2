package policy

import (
	"sync"
	"time"
)

// memoCache is a TTL memoizer keyed by argument fingerprint. Entries expire
// lazily: a read past the deadline deletes the entry and reports a miss.
type memoCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoEntry
	now     func() time.Time
}

type memoEntry struct {
	value     any
	expiresAt time.Time
}

func newMemoCache(ttl time.Duration) *memoCache {
	return &memoCache{
		ttl:     ttl,
		entries: make(map[string]memoEntry),
		now:     time.Now,
	}
}

func (c *memoCache) get(fingerprint string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[fingerprint]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, fingerprint)
		return nil, false
	}
	return e.value, true
}

func (c *memoCache) put(fingerprint string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[fingerprint] = memoEntry{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *memoCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
