package tracker

import (
	"slices"

	"imagestudio/internal/domain"
)

// HasContent reports whether the provider attached the job's result:
// a primary image for upscales, derived images otherwise.
func HasContent(j domain.Job) bool {
	if j.Kind == domain.KindUpscale {
		return j.PrimaryImage != ""
	}
	return len(j.DerivedImages) > 0
}

// Visible hides jobs the provider reported as completed before attaching
// their result.
func Visible(j domain.Job) bool {
	return j.Status != domain.StatusCompleted || HasContent(j)
}

// ActionButton is one rendered action control.
type ActionButton struct {
	Code     domain.ActionCode
	Disabled bool
}

// ActionButtons returns the controls shown under a job. Only completed root
// jobs with content and available actions get any.
func ActionButtons(j domain.Job) []ActionButton {
	if j.Status != domain.StatusCompleted || !HasContent(j) || !j.IsRoot() || len(j.AvailableActions) == 0 {
		return nil
	}
	out := make([]ActionButton, 0, len(j.AvailableActions))
	for _, code := range j.AvailableActions {
		out = append(out, ActionButton{Code: code, Disabled: slices.Contains(j.ConsumedActions, code)})
	}
	return out
}

// ButtonFor returns the rendered button for code, if any.
func ButtonFor(j domain.Job, code domain.ActionCode) (ActionButton, bool) {
	for _, b := range ActionButtons(j) {
		if b.Code == code {
			return b, true
		}
	}
	return ActionButton{}, false
}

// VisibleJobs filters jobs with Visible, keeping order.
func VisibleJobs(jobs []domain.Job) []domain.Job {
	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if Visible(j) {
			out = append(out, j)
		}
	}
	return out
}
