package domain

import (
	"regexp"
	"slices"
	"time"
)

// JobKind tags how a generation job was created. It never changes afterwards.
type JobKind string

const (
	KindInitial JobKind = "initial"
	KindVariant JobKind = "variant"
	KindUpscale JobKind = "upscale"
)

// JobStatus mirrors the provider's numeric image_status domain.
type JobStatus int

const (
	StatusUnknown    JobStatus = 0
	StatusQueued     JobStatus = 1
	StatusProcessing JobStatus = 2
	StatusCompleted  JobStatus = 3
	StatusFailed     JobStatus = 4
)

func (s JobStatus) String() string {
	switch s {
	case StatusQueued:
		return "Queueing"
	case StatusProcessing:
		return "Processing"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Valid reports whether s is one of the four provider states.
func (s JobStatus) Valid() bool {
	return s >= StatusQueued && s <= StatusFailed
}

// ActionCode is a provider button: U1..U4 (upscale) or V1..V4 (variant).
type ActionCode string

var actionCodePattern = regexp.MustCompile(`^[UV][1-4]$`)

// Valid reports whether the code matches ^[UV][1-4]$.
func (c ActionCode) Valid() bool {
	return actionCodePattern.MatchString(string(c))
}

// JobKind returns the kind of job the action creates. Only used when the
// derived job is registered; the kind is carried from then on.
func (c ActionCode) JobKind() JobKind {
	if len(c) > 0 && c[0] == 'U' {
		return KindUpscale
	}
	return KindVariant
}

// ScaleOptions are the aspect ratios offered by the provider.
var ScaleOptions = []string{"1:1", "4:3", "3:4", "16:9", "9:16", "3:2", "2:3"}

// DefaultScale is used when a prompt is submitted without an aspect ratio.
const DefaultScale = "1:1"

// ValidScale reports whether scale is one of ScaleOptions.
func ValidScale(scale string) bool {
	return slices.Contains(ScaleOptions, scale)
}

// Job is one generation record tracked for the lifetime of a session.
type Job struct {
	ID               string
	Kind             JobKind
	ParentID         string
	Action           ActionCode
	Status           JobStatus
	Prompt           string
	OriginPrompt     string
	AspectRatio      string
	SourceImage      string
	PrimaryImage     string
	DerivedImages    []string
	AvailableActions []ActionCode
	ConsumedActions  []ActionCode
	CreatedAt        time.Time
}

// IsRoot reports whether the job starts a generation tree.
func (j Job) IsRoot() bool {
	return j.ParentID == ""
}

// Clone returns a deep copy so callers can never alias tracker state.
func (j Job) Clone() Job {
	j.DerivedImages = slices.Clone(j.DerivedImages)
	j.AvailableActions = slices.Clone(j.AvailableActions)
	j.ConsumedActions = slices.Clone(j.ConsumedActions)
	return j
}

// JobHandle is what the provider returns when a job is created.
type JobHandle struct {
	ID          string
	Status      JobStatus
	SourceImage string
	AspectRatio string
	Prompt      string
	// Record is the provider record the handle was built from.
	Record ImageData
}

// StatusSnapshot is one provider status response. Nil slices and empty
// strings mean the provider omitted the field.
type StatusSnapshot struct {
	ID            string
	Status        JobStatus
	PrimaryImage  string
	DerivedImages []string
	Actions       []ActionCode
	UsedActions   []ActionCode
	SourceImage   string
	Prompt        string
	OriginPrompt  string
	AspectRatio   string
	// Record is the provider record the snapshot was built from.
	Record ImageData
}
