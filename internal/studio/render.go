package studio

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"imagestudio/internal/domain"
	"imagestudio/internal/tracker"
)

// Card is the renderable view of one job.
type Card struct {
	ID          string
	Kind        domain.JobKind
	ParentID    string
	Action      domain.ActionCode
	Status      domain.JobStatus
	Prompt      string
	AspectRatio string
	SourceImage string
	Images      []string
	Buttons     []tracker.ActionButton
	Polling     bool
	CreatedAt   time.Time
}

// NewCard builds the card for job. Upscales show their single image; other
// jobs show their derived images and fall back to the thumbnail.
func NewCard(job domain.Job, polling bool) Card {
	images := job.DerivedImages
	if job.Kind == domain.KindUpscale || len(images) == 0 {
		images = nil
		if job.PrimaryImage != "" {
			images = []string{job.PrimaryImage}
		}
	}
	return Card{
		ID:          job.ID,
		Kind:        job.Kind,
		ParentID:    job.ParentID,
		Action:      job.Action,
		Status:      job.Status,
		Prompt:      job.Prompt,
		AspectRatio: job.AspectRatio,
		SourceImage: job.SourceImage,
		Images:      append([]string(nil), images...),
		Buttons:     tracker.ActionButtons(job),
		Polling:     polling,
		CreatedAt:   job.CreatedAt,
	}
}

// NewCards builds cards for jobs, keeping order.
func NewCards(jobs []domain.Job, polling func(id string) bool) []Card {
	out := make([]Card, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewCard(j, polling != nil && polling(j.ID)))
	}
	return out
}

// Theme holds the gallery's color scheme.
type Theme struct {
	Queued     lipgloss.Color
	Processing lipgloss.Color
	Completed  lipgloss.Color
	Failed     lipgloss.Color
	Border     lipgloss.Color
	Hint       lipgloss.Color
	Disabled   lipgloss.Color
}

// DefaultTheme is used by the REPL.
var DefaultTheme = Theme{
	Queued:     lipgloss.Color("#D7AF00"), // yellow
	Processing: lipgloss.Color("#5FAFD7"), // blue
	Completed:  lipgloss.Color("#00D787"), // green
	Failed:     lipgloss.Color("#FF005F"), // red
	Border:     lipgloss.Color("#585858"),
	Hint:       lipgloss.Color("#6C6C6C"),
	Disabled:   lipgloss.Color("#4E4E4E"),
}

func (t Theme) statusStyle(s domain.JobStatus) lipgloss.Style {
	color := t.Queued
	switch s {
	case domain.StatusProcessing:
		color = t.Processing
	case domain.StatusCompleted:
		color = t.Completed
	case domain.StatusFailed:
		color = t.Failed
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true)
}

func (t Theme) cardStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) disabledStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Disabled).Strikethrough(true)
}

// Render writes the gallery to w.
func Render(w io.Writer, cards []Card, theme Theme) error {
	if len(cards) == 0 {
		_, err := fmt.Fprintln(w, theme.hintStyle().Render("No images yet. Use 'generate <prompt>' to start."))
		return err
	}
	blocks := make([]string, 0, len(cards)+1)
	for _, card := range cards {
		blocks = append(blocks, renderCard(card, theme))
	}
	blocks = append(blocks, theme.hintStyle().Render("Images are kept by the provider for 7 days. Use 'download <job>' to save them."))
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, blocks...))
	return err
}

// RenderCard writes a single card to w.
func RenderCard(w io.Writer, card Card, theme Theme) error {
	_, err := fmt.Fprintln(w, renderCard(card, theme))
	return err
}

func renderCard(card Card, theme Theme) string {
	var b strings.Builder

	title := fmt.Sprintf("%s  %s", card.ID, theme.statusStyle(card.Status).Render(card.Status.String()))
	if card.Polling {
		title += " " + theme.hintStyle().Render("(polling)")
	}
	b.WriteString(title)
	b.WriteString("\n")

	switch card.Kind {
	case domain.KindInitial:
		fmt.Fprintf(&b, "prompt: %s\n", card.Prompt)
	default:
		fmt.Fprintf(&b, "%s %s of %s\n", card.Kind, card.Action, card.ParentID)
	}
	if card.AspectRatio != "" {
		fmt.Fprintf(&b, "scale:  %s\n", card.AspectRatio)
	}
	if card.SourceImage != "" {
		fmt.Fprintf(&b, "source: %s\n", card.SourceImage)
	}
	for i, img := range card.Images {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, img)
	}
	if row := renderButtons(card.Buttons, theme); row != "" {
		b.WriteString(row)
		b.WriteString("\n")
	}

	return theme.cardStyle().Render(strings.TrimRight(b.String(), "\n"))
}

func renderButtons(buttons []tracker.ActionButton, theme Theme) string {
	if len(buttons) == 0 {
		return ""
	}
	parts := make([]string, 0, len(buttons))
	for _, btn := range buttons {
		if btn.Disabled {
			parts = append(parts, theme.disabledStyle().Render("~"+string(btn.Code)+"~"))
			continue
		}
		parts = append(parts, "["+string(btn.Code)+"]")
	}
	return strings.Join(parts, " ")
}
