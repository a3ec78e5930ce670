package tracker

import (
	"slices"

	"imagestudio/internal/domain"
)

// merge folds a status snapshot into the stored job and reports whether the
// job reached its kind-specific termination condition. seen accumulates every
// action code the provider has reported for the job.
func merge(prev domain.Job, snap domain.StatusSnapshot, seen map[domain.ActionCode]struct{}) (domain.Job, bool) {
	next := prev.Clone()

	if snap.Status.Valid() {
		next.Status = snap.Status
	}
	if snap.Prompt != "" {
		next.Prompt = snap.Prompt
	}
	if snap.AspectRatio != "" {
		next.AspectRatio = snap.AspectRatio
	}
	if snap.OriginPrompt != "" {
		next.OriginPrompt = snap.OriginPrompt
	}
	if snap.SourceImage != "" {
		next.SourceImage = snap.SourceImage
	}
	if snap.PrimaryImage != "" {
		next.PrimaryImage = snap.PrimaryImage
	}
	for _, code := range snap.Actions {
		seen[code] = struct{}{}
	}

	var done bool
	switch prev.Kind {
	case domain.KindUpscale:
		next.DerivedImages = nil
		next.AvailableActions = nil
		done = next.Status == domain.StatusFailed ||
			(next.Status == domain.StatusCompleted && len(snap.DerivedImages) == 0 && snap.PrimaryImage != "")
	default:
		if snap.DerivedImages != nil {
			next.DerivedImages = slices.Clone(snap.DerivedImages)
		}
		switch {
		case !prev.IsRoot():
			next.AvailableActions = nil
		case snap.Actions != nil:
			next.AvailableActions = slices.Clone(snap.Actions)
		}
		done = next.Status == domain.StatusFailed ||
			(next.Status == domain.StatusCompleted && len(snap.DerivedImages) > 0)
	}

	if snap.UsedActions != nil {
		consumed := make([]domain.ActionCode, 0, len(snap.UsedActions))
		for _, code := range snap.UsedActions {
			if _, ok := seen[code]; ok && !slices.Contains(consumed, code) {
				consumed = append(consumed, code)
			}
		}
		next.ConsumedActions = consumed
	}

	return next, done
}

func sameJob(a, b domain.Job) bool {
	return a.Status == b.Status &&
		a.Prompt == b.Prompt &&
		a.OriginPrompt == b.OriginPrompt &&
		a.AspectRatio == b.AspectRatio &&
		a.SourceImage == b.SourceImage &&
		a.PrimaryImage == b.PrimaryImage &&
		slices.Equal(a.DerivedImages, b.DerivedImages) &&
		slices.Equal(a.AvailableActions, b.AvailableActions) &&
		slices.Equal(a.ConsumedActions, b.ConsumedActions)
}
