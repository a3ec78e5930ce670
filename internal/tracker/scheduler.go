package tracker

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs one periodic task per id. Start runs the task once right
// away and then every interval; ticks for the same id never overlap.
// Cancel and CancelAll are idempotent.
type Scheduler interface {
	Start(id string, every time.Duration, task func())
	Cancel(id string)
	CancelAll()
}

// TickerScheduler drives each cycle from its own goroutine and time.Ticker.
type TickerScheduler struct {
	mu     sync.Mutex
	cycles map[string]context.CancelFunc
	wg     sync.WaitGroup
}

// NewTickerScheduler returns an empty scheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{cycles: make(map[string]context.CancelFunc)}
}

// Start begins the cycle for id. Starting an id that already runs is a no-op.
func (s *TickerScheduler) Start(id string, every time.Duration, task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cycles[id]; ok {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cycles[id] = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		task()

		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				task()
			}
		}
	}()
}

// Cancel stops the cycle for id.
func (s *TickerScheduler) Cancel(id string) {
	s.mu.Lock()
	cancel, ok := s.cycles[id]
	delete(s.cycles, id)
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

// CancelAll stops every cycle.
func (s *TickerScheduler) CancelAll() {
	s.mu.Lock()
	cycles := s.cycles
	s.cycles = make(map[string]context.CancelFunc)
	s.mu.Unlock()
	for _, cancel := range cycles {
		cancel()
	}
}

// Active reports how many cycles are running.
func (s *TickerScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cycles)
}

// Wait blocks until every cycle goroutine has returned.
func (s *TickerScheduler) Wait() {
	s.wg.Wait()
}
