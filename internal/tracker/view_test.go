package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"imagestudio/internal/domain"
)

func TestVisibility(t *testing.T) {
	tests := []struct {
		name    string
		job     domain.Job
		content bool
		visible bool
	}{
		{name: "queued initial", job: domain.Job{Kind: domain.KindInitial, Status: domain.StatusQueued}, visible: true},
		{name: "processing upscale", job: domain.Job{Kind: domain.KindUpscale, Status: domain.StatusProcessing}, visible: true},
		{name: "premature initial", job: domain.Job{Kind: domain.KindInitial, Status: domain.StatusCompleted, PrimaryImage: "thumb"}},
		{name: "premature upscale", job: domain.Job{Kind: domain.KindUpscale, Status: domain.StatusCompleted}},
		{
			name:    "completed variant",
			job:     domain.Job{Kind: domain.KindVariant, Status: domain.StatusCompleted, DerivedImages: []string{"a"}},
			content: true,
			visible: true,
		},
		{
			name:    "completed upscale",
			job:     domain.Job{Kind: domain.KindUpscale, Status: domain.StatusCompleted, PrimaryImage: "p"},
			content: true,
			visible: true,
		},
		{name: "failed without content", job: domain.Job{Kind: domain.KindInitial, Status: domain.StatusFailed}, visible: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.content, HasContent(tc.job))
			assert.Equal(t, tc.visible, Visible(tc.job))
		})
	}
}

func TestActionButtons(t *testing.T) {
	root := domain.Job{
		Kind:             domain.KindInitial,
		Status:           domain.StatusCompleted,
		DerivedImages:    []string{"u1", "u2"},
		AvailableActions: []domain.ActionCode{"U1", "U2", "V1"},
		ConsumedActions:  []domain.ActionCode{"U2"},
	}

	assert.Equal(t, []ActionButton{
		{Code: "U1"},
		{Code: "U2", Disabled: true},
		{Code: "V1"},
	}, ActionButtons(root))

	tests := []struct {
		name   string
		mutate func(j *domain.Job)
	}{
		{name: "not completed", mutate: func(j *domain.Job) { j.Status = domain.StatusProcessing }},
		{name: "no content", mutate: func(j *domain.Job) { j.DerivedImages = nil }},
		{name: "derived job", mutate: func(j *domain.Job) { j.ParentID = "P" }},
		{name: "no actions", mutate: func(j *domain.Job) { j.AvailableActions = []domain.ActionCode{} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			j := root.Clone()
			tc.mutate(&j)
			assert.Nil(t, ActionButtons(j))
			_, ok := ButtonFor(j, "U1")
			assert.False(t, ok)
		})
	}
}

func TestVisibleJobsKeepsOrder(t *testing.T) {
	jobs := []domain.Job{
		{ID: "C", Kind: domain.KindInitial, Status: domain.StatusQueued},
		{ID: "B", Kind: domain.KindInitial, Status: domain.StatusCompleted},
		{ID: "A", Kind: domain.KindInitial, Status: domain.StatusCompleted, DerivedImages: []string{"a"}},
	}
	got := VisibleJobs(jobs)
	assert.Len(t, got, 2)
	assert.Equal(t, "C", got[0].ID)
	assert.Equal(t, "A", got[1].ID)
}
