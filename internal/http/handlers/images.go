package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"imagestudio/internal/domain"
	"imagestudio/internal/generation"
)

// Generate godoc
// @Summary Generate images from a prompt
// @Description Text-to-image, or image-to-image when source_image is set. Returns the provider record with its _id.
// @Tags images
// @Accept json
// @Produce json
// @Param request body domain.GenerateRequest true "scale defaults to 1:1"
// @Success 200 {object} domain.Envelope
// @Failure 400 {object} domain.Envelope
// @Failure 401 {object} domain.Envelope "Not authenticated: the session holds no API key or token. Log in via /api/login first."
// @Failure 500 {object} domain.Envelope
// @Router /api/generate [post]
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	auth, err := a.authContext(r)
	if err != nil {
		a.fail(w, r, err, msgGenerateFailed)
		return
	}
	var req domain.GenerateRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err, msgGenerateFailed)
		return
	}

	handle, err := a.Generator.CreateFromPrompt(r.Context(), auth, generation.PromptRequest{
		Prompt:      req.Prompt,
		AspectRatio: req.Scale,
		SourceImage: req.SourceImage,
		WebhookURL:  req.WebhookURL,
	})
	if err != nil {
		a.fail(w, r, err, msgGenerateFailed)
		return
	}
	a.log(r).Info().Str("job_id", handle.ID).Str("scale", handle.AspectRatio).Msg("generation started")
	a.json(w, http.StatusOK, domain.Envelope{Success: true, Data: &handle.Record})
}

// Variant godoc
// @Summary Upscale or vary a generation
// @Description button is U1..U4 (upscale) or V1..V4 (variation) of the image _id.
// @Tags images
// @Accept json
// @Produce json
// @Param request body domain.VariantRequest true "source job and button"
// @Success 200 {object} domain.Envelope
// @Failure 400 {object} domain.Envelope
// @Failure 401 {object} domain.Envelope "Not authenticated: the session holds no API key or token. Log in via /api/login first."
// @Failure 500 {object} domain.Envelope
// @Router /api/variant [post]
func (a *App) Variant(w http.ResponseWriter, r *http.Request) {
	auth, err := a.authContext(r)
	if err != nil {
		a.fail(w, r, err, msgVariantFailed)
		return
	}
	var req domain.VariantRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err, msgVariantFailed)
		return
	}

	button := domain.ActionCode(strings.ToUpper(strings.TrimSpace(req.Button)))
	handle, err := a.Generator.CreateFromAction(r.Context(), auth, req.ID, button, req.WebhookURL)
	if err != nil {
		a.fail(w, r, err, msgVariantFailed)
		return
	}
	a.log(r).Info().Str("job_id", handle.ID).Str("parent_id", req.ID).Str("button", string(button)).Msg("action started")
	a.json(w, http.StatusOK, domain.Envelope{Success: true, Data: &handle.Record})
}

// Status godoc
// @Summary Get generation status
// @Tags images
// @Produce json
// @Param id path string true "image model id"
// @Success 200 {object} domain.Envelope
// @Failure 400 {object} domain.Envelope
// @Failure 401 {object} domain.Envelope "Not authenticated: the session holds no API key or token. Log in via /api/login first."
// @Failure 500 {object} domain.Envelope
// @Router /api/status/{id} [get]
func (a *App) Status(w http.ResponseWriter, r *http.Request) {
	auth, err := a.authContext(r)
	if err != nil {
		a.fail(w, r, err, msgStatusFailed)
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		a.error(w, r, http.StatusBadRequest, msgImageIDRequired)
		return
	}

	snap, err := a.Generator.GetStatus(r.Context(), auth, id)
	if err != nil {
		a.fail(w, r, err, msgStatusFailed)
		return
	}
	a.json(w, http.StatusOK, domain.Envelope{Success: true, Data: &snap.Record})
}
