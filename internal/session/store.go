// Package session provides the server-side session store. Each browser or CLI
// client is identified by an opaque id carried in a signed cookie; the store
// maps it to per-client state and evicts idle entries.
package session

import (
	"sync"
	"time"
)

// cleanupInterval is how often Get triggers lazy eviction of expired entries.
const cleanupInterval = 100

type entry[T any] struct {
	value      *T
	lastAccess time.Time
}

// Store is a typed, thread-safe session store. Each id maps to one instance
// of T, created on first access via newFn.
type Store[T any] struct {
	mu       sync.Mutex
	entries  map[string]*entry[T]
	ttl      time.Duration
	newFn    func() *T
	onEvict  func(id string, v *T)
	now      func() time.Time
	getCalls int
}

// Option customizes a Store.
type Option[T any] func(*Store[T])

// WithClock overrides time.Now, for tests.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(s *Store[T]) { s.now = now }
}

// WithEvict registers a callback run for every evicted or deleted session.
func WithEvict[T any](fn func(id string, v *T)) Option[T] {
	return func(s *Store[T]) { s.onEvict = fn }
}

// New creates a Store that evicts sessions inactive longer than ttl.
func New[T any](ttl time.Duration, newFn func() *T, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		entries: make(map[string]*entry[T]),
		ttl:     ttl,
		newFn:   newFn,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the state for id, creating it if needed. Each call refreshes
// the session's last-access timestamp.
func (s *Store[T]) Get(id string) *T {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getCalls++
	if s.getCalls%cleanupInterval == 0 {
		s.cleanupLocked()
	}

	e, ok := s.entries[id]
	if ok && s.expiredLocked(e) {
		s.removeLocked(id, e)
		ok = false
	}
	if !ok {
		e = &entry[T]{value: s.newFn()}
		s.entries[id] = e
	}
	e.lastAccess = s.now()
	return e.value
}

// Lookup returns the state for id without creating it.
func (s *Store[T]) Lookup(id string) (*T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	if s.expiredLocked(e) {
		s.removeLocked(id, e)
		return nil, false
	}
	e.lastAccess = s.now()
	return e.value, true
}

// Delete drops the session immediately.
func (s *Store[T]) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		s.removeLocked(id, e)
	}
}

// Cleanup evicts all sessions that have been inactive longer than the TTL.
func (s *Store[T]) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupLocked()
}

func (s *Store[T]) cleanupLocked() {
	for id, e := range s.entries {
		if s.expiredLocked(e) {
			s.removeLocked(id, e)
		}
	}
}

func (s *Store[T]) expiredLocked(e *entry[T]) bool {
	return e.lastAccess.Before(s.now().Add(-s.ttl))
}

func (s *Store[T]) removeLocked(id string, e *entry[T]) {
	delete(s.entries, id)
	if s.onEvict != nil {
		s.onEvict(id, e.value)
	}
}

// Len returns the number of active sessions.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
