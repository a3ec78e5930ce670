// Package generation is the typed generation API used by the backend
// handlers. It is stateless: every call carries the caller's auth context.
package generation

import (
	"context"
	"fmt"
	"strings"

	"imagestudio/internal/domain"
	"imagestudio/internal/providers/akool"
)

// Provider is the subset of the Akool client the generation client drives.
type Provider interface {
	CreateByPrompt(ctx context.Context, auth domain.AuthContext, req akool.CreateByPromptRequest) (domain.ImageData, error)
	CreateByButton(ctx context.Context, auth domain.AuthContext, req akool.CreateByButtonRequest) (domain.ImageData, error)
	InfoByModelID(ctx context.Context, auth domain.AuthContext, id string) (domain.ImageData, error)
}

// PromptRequest is the input of CreateFromPrompt.
type PromptRequest struct {
	Prompt      string
	AspectRatio string
	SourceImage string
	WebhookURL  string
}

// Client wraps the provider with validation and typed results.
type Client struct {
	provider Provider
}

// NewClient builds a generation client.
func NewClient(provider Provider) *Client {
	return &Client{provider: provider}
}

// CreateFromPrompt starts an initial generation.
func (c *Client) CreateFromPrompt(ctx context.Context, auth domain.AuthContext, req PromptRequest) (domain.JobHandle, error) {
	if !auth.Authenticated() {
		return domain.JobHandle{}, domain.ErrUnauthenticated
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return domain.JobHandle{}, domain.Validationf("Prompt is required")
	}
	scale := strings.TrimSpace(req.AspectRatio)
	if scale == "" {
		scale = domain.DefaultScale
	}
	source := strings.TrimSpace(req.SourceImage)

	data, err := c.provider.CreateByPrompt(ctx, auth, akool.CreateByPromptRequest{
		Prompt:      prompt,
		Scale:       scale,
		WebhookURL:  req.WebhookURL,
		SourceImage: source,
	})
	if err != nil {
		return domain.JobHandle{}, fmt.Errorf("create from prompt: %w", err)
	}
	if strings.TrimSpace(data.ID) == "" {
		return domain.JobHandle{}, fmt.Errorf("create from prompt: %w: response missing _id", domain.ErrProvider)
	}
	handle := data.Handle(source, scale)
	if handle.Prompt == "" {
		handle.Prompt = prompt
	}
	return handle, nil
}

// CreateFromAction starts an upscale (U1..U4) or variation (V1..V4) of jobID.
func (c *Client) CreateFromAction(ctx context.Context, auth domain.AuthContext, jobID string, action domain.ActionCode, webhookURL string) (domain.JobHandle, error) {
	if !auth.Authenticated() {
		return domain.JobHandle{}, domain.ErrUnauthenticated
	}
	jobID = strings.TrimSpace(jobID)
	action = domain.ActionCode(strings.TrimSpace(string(action)))
	if jobID == "" || action == "" {
		return domain.JobHandle{}, domain.Validationf("Image ID and button are required")
	}
	if !action.Valid() {
		return domain.JobHandle{}, domain.Validationf("invalid button %q", action)
	}

	data, err := c.provider.CreateByButton(ctx, auth, akool.CreateByButtonRequest{
		ID:         jobID,
		Button:     string(action),
		WebhookURL: webhookURL,
	})
	if err != nil {
		return domain.JobHandle{}, fmt.Errorf("create from action %s: %w", action, err)
	}
	if strings.TrimSpace(data.ID) == "" {
		return domain.JobHandle{}, fmt.Errorf("create from action %s: %w: response missing _id", action, domain.ErrProvider)
	}
	return data.Handle("", ""), nil
}

// GetStatus fetches the current state of jobID.
func (c *Client) GetStatus(ctx context.Context, auth domain.AuthContext, jobID string) (domain.StatusSnapshot, error) {
	if !auth.Authenticated() {
		return domain.StatusSnapshot{}, domain.ErrUnauthenticated
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return domain.StatusSnapshot{}, domain.Validationf("Image ID is required")
	}
	data, err := c.provider.InfoByModelID(ctx, auth, jobID)
	if err != nil {
		return domain.StatusSnapshot{}, fmt.Errorf("get status %s: %w", jobID, err)
	}
	snap := data.Snapshot()
	if snap.ID == "" {
		snap.ID = jobID
	}
	return snap, nil
}
