// Package studio is the presentation layer of the terminal frontend: it turns
// user intents into backend calls and tracker registrations and builds the
// gallery cards the renderer draws.
package studio

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"imagestudio/internal/domain"
	"imagestudio/internal/infra"
	"imagestudio/internal/storage"
	"imagestudio/internal/tracker"
	"imagestudio/pkg/zip"
)

// ImageValidity is how long the provider keeps generated images.
const ImageValidity = 7 * 24 * time.Hour

// ErrActionUnavailable is returned when the requested button is not rendered
// or is disabled on the job.
var ErrActionUnavailable = errors.New("action not available")

// Backend is the API server as seen by the studio.
type Backend interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.LoginResponse, error)
	Logout(ctx context.Context) error
	CheckAuth(ctx context.Context) (domain.AuthCheckResponse, error)
	Generate(ctx context.Context, req domain.GenerateRequest) (domain.JobHandle, error)
	CreateVariant(ctx context.Context, jobID string, action domain.ActionCode, webhookURL string) (domain.JobHandle, error)
	GetStatus(ctx context.Context, jobID string) (domain.StatusSnapshot, error)
	FetchImage(ctx context.Context, imageURL string) ([]byte, string, error)
}

// Options configures a Controller.
type Options struct {
	Backend Backend
	Store   *storage.FileStore
	// NewScheduler builds the scheduler of each tracker generation; nil uses
	// a TickerScheduler.
	NewScheduler func() tracker.Scheduler
	Interval     time.Duration
	Now          func() time.Time
	Logger       *infra.Logger
}

// Controller coordinates the backend, the job tracker and downloads.
type Controller struct {
	backend      Backend
	store        *storage.FileStore
	newScheduler func() tracker.Scheduler
	interval     time.Duration
	now          func() time.Time
	logger       *infra.Logger

	mu      sync.Mutex
	tracker *tracker.Tracker

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// NewController builds a controller with a fresh tracker.
func NewController(opts Options) *Controller {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	c := &Controller{
		backend:      opts.Backend,
		store:        opts.Store,
		newScheduler: opts.NewScheduler,
		interval:     opts.Interval,
		now:          now,
		logger:       logger,
		subs:         make(map[int]func()),
	}
	c.tracker = c.buildTracker()
	return c
}

func (c *Controller) buildTracker() *tracker.Tracker {
	var sched tracker.Scheduler
	if c.newScheduler != nil {
		sched = c.newScheduler()
	}
	t := tracker.New(c.backend, tracker.Options{
		Scheduler: sched,
		Interval:  c.interval,
		Now:       c.now,
		Logger:    c.logger,
	})
	t.Subscribe(c.notify)
	return t
}

// Tracker returns the current tracker.
func (c *Controller) Tracker() *tracker.Tracker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker
}

// Login authenticates the session.
func (c *Controller) Login(ctx context.Context, creds domain.Credentials) (domain.LoginResponse, error) {
	if err := creds.Validate(); err != nil {
		return domain.LoginResponse{}, err
	}
	return c.backend.Login(ctx, creds)
}

// Logout clears the session and tears down every polling cycle. The job list
// starts empty afterwards.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.backend.Logout(ctx)

	c.mu.Lock()
	old := c.tracker
	c.tracker = c.buildTracker()
	c.mu.Unlock()
	old.UnregisterAll()
	c.notify()

	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// WhoAmI reports the session's auth state.
func (c *Controller) WhoAmI(ctx context.Context) (domain.AuthCheckResponse, error) {
	return c.backend.CheckAuth(ctx)
}

// Close stops all polling.
func (c *Controller) Close() {
	c.Tracker().UnregisterAll()
}

// SubmitPrompt starts an initial generation and begins tracking it.
func (c *Controller) SubmitPrompt(ctx context.Context, prompt, aspect, sourceImage string) (domain.Job, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return domain.Job{}, domain.Validationf("Prompt is required")
	}
	aspect = strings.TrimSpace(aspect)
	if aspect == "" {
		aspect = domain.DefaultScale
	}
	if !domain.ValidScale(aspect) {
		return domain.Job{}, domain.Validationf("unsupported aspect ratio %q (one of %s)", aspect, strings.Join(domain.ScaleOptions, ", "))
	}
	sourceImage = strings.TrimSpace(sourceImage)

	handle, err := c.backend.Generate(ctx, domain.GenerateRequest{
		Prompt:      prompt,
		Scale:       aspect,
		SourceImage: sourceImage,
	})
	if err != nil {
		return domain.Job{}, fmt.Errorf("generate: %w", err)
	}

	t := c.Tracker()
	id, err := t.Register(domain.KindInitial, "", tracker.Fields{
		ID:          handle.ID,
		Status:      handle.Status,
		Prompt:      prompt,
		AspectRatio: firstNonEmpty(handle.AspectRatio, aspect),
		SourceImage: firstNonEmpty(handle.SourceImage, sourceImage),
	})
	if err != nil {
		return domain.Job{}, err
	}
	job, _ := t.Job(id)
	return job, nil
}

// RequestAction runs an upscale or variation on a completed root job. The
// button must be rendered and enabled on the parent.
func (c *Controller) RequestAction(ctx context.Context, jobID string, code domain.ActionCode) (domain.Job, error) {
	t := c.Tracker()
	parent, ok := t.Job(jobID)
	if !ok {
		return domain.Job{}, fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}
	code = domain.ActionCode(strings.ToUpper(strings.TrimSpace(string(code))))
	button, ok := tracker.ButtonFor(parent, code)
	if !ok || button.Disabled {
		return domain.Job{}, fmt.Errorf("%s on %s: %w", code, jobID, ErrActionUnavailable)
	}

	handle, err := c.backend.CreateVariant(ctx, parent.ID, code, "")
	if err != nil {
		return domain.Job{}, fmt.Errorf("%s on %s: %w", code, jobID, err)
	}

	id, err := t.Register(code.JobKind(), parent.ID, tracker.Fields{
		ID:           handle.ID,
		Status:       handle.Status,
		Action:       code,
		Prompt:       parent.Prompt,
		OriginPrompt: parent.OriginPrompt,
		AspectRatio:  parent.AspectRatio,
		SourceImage:  parent.SourceImage,
	})
	if err != nil {
		return domain.Job{}, err
	}
	if err := t.Refresh(ctx, parent.ID); err != nil {
		c.logger.Warn().Err(err).Str("job_id", parent.ID).Msg("studio: parent refresh failed")
	}
	job, _ := t.Job(id)
	return job, nil
}

// Download saves a job's result: the single image of an upscale, or a zip of
// the four images of an initial or variant job.
func (c *Controller) Download(ctx context.Context, jobID string) (string, error) {
	if c.store == nil {
		return "", errors.New("download: no output directory configured")
	}
	job, ok := c.Tracker().Job(jobID)
	if !ok {
		return "", fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}
	stamp := c.now().UnixMilli()

	urls := job.DerivedImages
	if job.Kind == domain.KindUpscale || len(urls) == 0 {
		if job.PrimaryImage == "" {
			return "", domain.Validationf("job %s has no image to download yet", jobID)
		}
		data, ctype, err := c.backend.FetchImage(ctx, job.PrimaryImage)
		if err != nil {
			return "", fmt.Errorf("download %s: %w", jobID, err)
		}
		return c.store.Write(ctx, fmt.Sprintf("akool-image-%d%s", stamp, imageExt(ctype)), data)
	}

	assets := make([]zip.Asset, 0, len(urls))
	for i, u := range urls {
		data, ctype, err := c.backend.FetchImage(ctx, u)
		if err != nil {
			return "", fmt.Errorf("download %s image %d: %w", jobID, i+1, err)
		}
		assets = append(assets, zip.Asset{
			Filename: fmt.Sprintf("akool-image-%d-%d%s", stamp, i+1, imageExt(ctype)),
			MIME:     ctype,
			Data:     data,
			Modified: c.now(),
		})
	}
	archive, err := zip.ArchiveAssets(assets)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", jobID, err)
	}
	return c.store.Write(ctx, fmt.Sprintf("akool-images-%s-%d.zip", sanitizeID(jobID), stamp), archive)
}

// Cards returns the gallery, most recent first, hiding prematurely
// completed jobs.
func (c *Controller) Cards() []Card {
	t := c.Tracker()
	return NewCards(tracker.VisibleJobs(t.Jobs()), t.Polling)
}

// Card returns one job's card, visible or not.
func (c *Controller) Card(jobID string) (Card, bool) {
	t := c.Tracker()
	job, ok := t.Job(jobID)
	if !ok {
		return Card{}, false
	}
	return NewCard(job, t.Polling(job.ID)), true
}

// Subscribe registers fn for gallery changes across tracker generations.
func (c *Controller) Subscribe(fn func()) (cancel func()) {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()
	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

func (c *Controller) notify() {
	c.subMu.Lock()
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func imageExt(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ".png"
	}
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}

func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
