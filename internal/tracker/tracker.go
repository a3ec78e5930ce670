// Package tracker keeps the session's generation jobs and polls the backend
// until each one resolves.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"imagestudio/internal/domain"
	"imagestudio/internal/infra"
)

// DefaultInterval is the polling period of every job cycle.
const DefaultInterval = 3 * time.Second

// ErrTrackerClosed is returned once UnregisterAll has run.
var ErrTrackerClosed = errors.New("tracker closed")

// StatusFetcher returns the provider's current view of a job.
type StatusFetcher interface {
	GetStatus(ctx context.Context, jobID string) (domain.StatusSnapshot, error)
}

// Options configures a Tracker.
type Options struct {
	Scheduler   Scheduler
	Interval    time.Duration
	PollTimeout time.Duration
	Now         func() time.Time
	Logger      *infra.Logger
}

// Fields are the values a job is registered with.
type Fields struct {
	ID           string
	Status       domain.JobStatus
	Action       domain.ActionCode
	Prompt       string
	OriginPrompt string
	AspectRatio  string
	SourceImage  string
}

type record struct {
	job      domain.Job
	seen     map[domain.ActionCode]struct{}
	inflight bool
	done     bool
}

// Tracker is the in-memory job registry. The job list is only mutated by
// Register and by the merge step of a poll.
type Tracker struct {
	fetcher     StatusFetcher
	sched       Scheduler
	interval    time.Duration
	pollTimeout time.Duration
	now         func() time.Time
	logger      *infra.Logger

	base   context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	order   []string
	records map[string]*record
	closed  bool

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// New builds a tracker. A nil Scheduler defaults to a TickerScheduler.
func New(fetcher StatusFetcher, opts Options) *Tracker {
	sched := opts.Scheduler
	if sched == nil {
		sched = NewTickerScheduler()
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	pollTimeout := opts.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	base, cancel := context.WithCancel(context.Background())
	return &Tracker{
		fetcher:     fetcher,
		sched:       sched,
		interval:    interval,
		pollTimeout: pollTimeout,
		now:         now,
		logger:      logger,
		base:        base,
		cancel:      cancel,
		records:     make(map[string]*record),
		subs:        make(map[int]func()),
	}
}

// Register adds a job at the front of the list and starts its polling cycle.
func (t *Tracker) Register(kind domain.JobKind, parentID string, f Fields) (string, error) {
	id := strings.TrimSpace(f.ID)
	if id == "" {
		return "", domain.Validationf("job id is required")
	}
	switch kind {
	case domain.KindInitial:
		if parentID != "" {
			return "", domain.Validationf("initial job %s cannot have a parent", id)
		}
	case domain.KindVariant, domain.KindUpscale:
		if parentID == "" {
			return "", domain.Validationf("%s job %s needs a parent", kind, id)
		}
	default:
		return "", domain.Validationf("unknown job kind %q", kind)
	}

	status := f.Status
	if !status.Valid() {
		status = domain.StatusQueued
	}
	job := domain.Job{
		ID:           id,
		Kind:         kind,
		ParentID:     parentID,
		Action:       f.Action,
		Status:       status,
		Prompt:       f.Prompt,
		OriginPrompt: f.OriginPrompt,
		AspectRatio:  f.AspectRatio,
		SourceImage:  f.SourceImage,
		CreatedAt:    t.now(),
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return "", ErrTrackerClosed
	}
	if _, ok := t.records[id]; ok {
		t.mu.Unlock()
		return "", fmt.Errorf("register job %s: %w", id, domain.ErrDuplicateOperation)
	}
	t.records[id] = &record{job: job, seen: make(map[domain.ActionCode]struct{})}
	t.order = append([]string{id}, t.order...)
	t.sched.Start(id, t.interval, func() { t.tick(id) })
	t.mu.Unlock()

	t.logger.Debug().Str("job_id", id).Str("kind", string(kind)).Str("parent_id", parentID).Msg("tracker: job registered")
	t.notify()
	return id, nil
}

func (t *Tracker) tick(id string) {
	ctx, cancel := context.WithTimeout(t.base, t.pollTimeout)
	defer cancel()
	if err := t.PollOnce(ctx, id); err != nil && !errors.Is(err, ErrTrackerClosed) {
		t.logger.Warn().Err(err).Str("job_id", id).Msg("tracker: poll failed")
	}
}

// PollOnce fetches the job's status and merges it. A failed fetch leaves the
// job untouched and does not stop its cycle. When a poll for the job is
// already in flight the call returns without fetching.
func (t *Tracker) PollOnce(ctx context.Context, id string) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrTrackerClosed
	}
	rec, ok := t.records[id]
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("poll job %s: %w", id, domain.ErrNotFound)
	}
	if rec.inflight {
		t.mu.Unlock()
		return nil
	}
	rec.inflight = true
	t.mu.Unlock()

	snap, err := t.fetcher.GetStatus(ctx, id)

	t.mu.Lock()
	rec.inflight = false
	if err != nil {
		t.mu.Unlock()
		return fmt.Errorf("poll job %s: %w", id, err)
	}
	if t.closed {
		t.mu.Unlock()
		return ErrTrackerClosed
	}
	next, done := merge(rec.job, snap, rec.seen)
	changed := !sameJob(rec.job, next)
	rec.job = next
	finished := done && !rec.done
	if done {
		rec.done = true
	}
	t.mu.Unlock()

	if done {
		t.sched.Cancel(id)
	}
	if finished {
		t.logger.Debug().Str("job_id", id).Str("status", next.Status.String()).Msg("tracker: polling stopped")
	}
	if changed {
		t.notify()
	}
	return nil
}

// Refresh polls a job once outside its cycle, typically after its cycle has
// ended. The merge rule applies as for any other poll.
func (t *Tracker) Refresh(ctx context.Context, id string) error {
	return t.PollOnce(ctx, id)
}

// UnregisterAll cancels every cycle and closes the tracker.
func (t *Tracker) UnregisterAll() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.mu.Unlock()

	t.sched.CancelAll()
	t.cancel()
}

// Closed reports whether UnregisterAll has run.
func (t *Tracker) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Jobs returns a deep copy of every job, most recent first.
func (t *Tracker) Jobs() []domain.Job {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.Job, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.records[id].job.Clone())
	}
	return out
}

// Job returns a copy of one job.
func (t *Tracker) Job(id string) (domain.Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[id]
	if !ok {
		return domain.Job{}, false
	}
	return rec.job.Clone(), true
}

// Polling reports whether the job's cycle is still running.
func (t *Tracker) Polling(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[id]
	return ok && !rec.done && !t.closed
}

// Subscribe registers fn to be called after every change to the job list.
// fn runs on the goroutine that made the change and must not block.
func (t *Tracker) Subscribe(fn func()) (cancel func()) {
	t.subMu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn
	t.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.subMu.Lock()
			delete(t.subs, id)
			t.subMu.Unlock()
		})
	}
}

func (t *Tracker) notify() {
	t.subMu.Lock()
	fns := make([]func(), 0, len(t.subs))
	for _, fn := range t.subs {
		fns = append(fns, fn)
	}
	t.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
