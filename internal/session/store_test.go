package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testState struct {
	Counter int
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(ttl time.Duration, opts ...Option[testState]) (*Store[testState], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts = append(opts, WithClock[testState](clock.Now))
	return New(ttl, func() *testState { return &testState{} }, opts...), clock
}

func TestGetOrCreate(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	a := s.Get("a")
	require.NotNil(t, a)
	a.Counter = 42

	assert.Same(t, a, s.Get("a"))
	b := s.Get("b")
	assert.NotSame(t, a, b)
	assert.Zero(t, b.Counter)
	assert.Equal(t, 2, s.Len())
}

func TestLookupDoesNotCreate(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	_, ok := s.Lookup("missing")
	assert.False(t, ok)
	assert.Zero(t, s.Len())

	created := s.Get("present")
	got, ok := s.Lookup("present")
	require.True(t, ok)
	assert.Same(t, created, got)
}

func TestTTLExpiry(t *testing.T) {
	var evicted []string
	s, clock := newTestStore(time.Minute, WithEvict(func(id string, _ *testState) {
		evicted = append(evicted, id)
	}))

	s.Get("ephemeral")
	clock.Advance(2 * time.Minute)
	s.Cleanup()

	assert.Zero(t, s.Len())
	assert.Equal(t, []string{"ephemeral"}, evicted)
}

func TestExpiredSessionIsRecreated(t *testing.T) {
	s, clock := newTestStore(time.Minute)

	first := s.Get("a")
	first.Counter = 7
	clock.Advance(2 * time.Minute)

	_, ok := s.Lookup("a")
	assert.False(t, ok)
	second := s.Get("a")
	assert.NotSame(t, first, second)
	assert.Zero(t, second.Counter)
}

func TestCleanupKeepsActive(t *testing.T) {
	s, clock := newTestStore(time.Minute)

	s.Get("keep")
	clock.Advance(40 * time.Second)
	s.Get("keep")
	clock.Advance(40 * time.Second)
	s.Cleanup()

	assert.Equal(t, 1, s.Len())
}

func TestDeleteRunsEvict(t *testing.T) {
	var evicted []string
	s, _ := newTestStore(time.Minute, WithEvict(func(id string, _ *testState) {
		evicted = append(evicted, id)
	}))

	s.Get("a")
	s.Delete("a")
	s.Delete("a")

	assert.Zero(t, s.Len())
	assert.Equal(t, []string{"a"}, evicted)
}

func TestLazyCleanup(t *testing.T) {
	s, clock := newTestStore(time.Minute)

	s.Get("old")
	clock.Advance(2 * time.Minute)
	for i := 1; i < cleanupInterval; i++ {
		s.Get("trigger")
	}

	assert.Equal(t, 1, s.Len())
}

func TestConcurrentAccess(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Get("session")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, s.Len())
}
