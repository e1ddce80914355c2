// Package session keeps one isolated policy state scope per logical client
// session, with idle-timeout eviction. Evicting a session discards its whole
// scope in bulk: cache entries, rate windows and queue counters together;
// there is no partial invalidation.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/beamkit/beam/policy"
)

// Session is one client's state container.
type Session struct {
	ID        string
	CreatedAt time.Time
	States    *policy.Registry

	lastSeen time.Time // guarded by the owning Manager's mutex
}

// Manager owns all live sessions. A background sweep evicts sessions idle
// longer than the configured TTL.
type Manager struct {
	mu       sync.Mutex
	idleTTL  time.Duration
	sessions map[string]*Session
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a manager evicting sessions idle longer than idleTTL,
// checked every sweepEvery. With idleTTL or sweepEvery <= 0, sessions live
// until explicitly evicted.
func NewManager(idleTTL, sweepEvery time.Duration) *Manager {
	m := &Manager{
		idleTTL:  idleTTL,
		sessions: make(map[string]*Session),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	if idleTTL > 0 && sweepEvery > 0 {
		go m.sweepLoop(sweepEvery)
	}
	return m
}

// Open creates a new session with a fresh policy state scope.
func (m *Manager) Open() *Session {
	now := m.now()
	s := &Session{
		ID:        newID(),
		CreatedAt: now,
		States:    policy.NewRegistry(),
		lastSeen:  now,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks up a session by ID and marks it as active.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if ok {
		s.lastSeen = m.now()
	}
	return s, ok
}

// Touch marks a session as active without returning it.
func (m *Manager) Touch(id string) {
	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		s.lastSeen = m.now()
	}
	m.mu.Unlock()
}

// Evict removes a session and discards its entire state scope.
func (m *Manager) Evict(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops the background sweep. Live sessions remain usable.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.done) })
}

func (m *Manager) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.done:
			return
		}
	}
}

// sweep evicts every session idle longer than the TTL.
func (m *Manager) sweep() {
	cutoff := m.now().Add(-m.idleTTL)
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
}

// newID produces a unique session identifier with an embedded timestamp.
// Format: sess_{YYYYMMDDTHHmmss}_{16 hex chars}
func newID() string {
	ts := time.Now().UTC().Format("20060102T150405")
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return "sess_" + ts + "_" + hex.EncodeToString(b)
}
