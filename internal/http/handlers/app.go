package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"imagestudio/internal/domain"
	"imagestudio/internal/generation"
	"imagestudio/internal/infra"
	"imagestudio/internal/middleware"
)

// Generator is the generation API the handlers drive.
type Generator interface {
	CreateFromPrompt(ctx context.Context, auth domain.AuthContext, req generation.PromptRequest) (domain.JobHandle, error)
	CreateFromAction(ctx context.Context, auth domain.AuthContext, jobID string, action domain.ActionCode, webhookURL string) (domain.JobHandle, error)
	GetStatus(ctx context.Context, auth domain.AuthContext, jobID string) (domain.StatusSnapshot, error)
}

type App struct {
	Generator Generator
	Logger    *infra.Logger
}

func NewApp(gen Generator, logger *infra.Logger) *App {
	if logger == nil {
		l := infra.NopLogger()
		logger = &l
	}
	return &App{Generator: gen, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// log returns the request-scoped logger when the Logger middleware ran.
func (a *App) log(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return a.Logger
}

func (a *App) error(w http.ResponseWriter, r *http.Request, code int, msg string) {
	a.json(w, code, domain.Envelope{Success: false, Error: translate(r, msg)})
}

// fail writes the failure envelope for a generation route. fallback names the
// operation ("Failed to generate image") and is used when the provider gave no
// message or the call never reached it.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var perr *domain.ProviderError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		a.error(w, r, http.StatusUnauthorized, msgNotAuthenticated)
	case errors.Is(err, domain.ErrValidation):
		a.error(w, r, http.StatusBadRequest, validationDetail(err))
	case errors.As(err, &perr):
		a.log(r).Warn().Int("code", perr.Code).Str("provider_msg", perr.Message).Msg(fallback)
		msg := perr.Message
		if msg == "" {
			msg = translate(r, fallback)
		}
		a.json(w, http.StatusBadRequest, domain.Envelope{
			Success: false,
			Error:   msg,
			Code:    perr.Code,
			Data:    perr.Data,
		})
	default:
		a.log(r).Error().Err(err).Msg(fallback)
		a.json(w, http.StatusInternalServerError, domain.Envelope{
			Success: false,
			Error:   translate(r, fallback),
			Message: err.Error(),
		})
	}
}

// authContext returns the provider credentials of the caller's session.
func (a *App) authContext(r *http.Request) (domain.AuthContext, error) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		return domain.AuthContext{}, domain.ErrUnauthenticated
	}
	gw, ok := sess.Existing()
	if !ok {
		return domain.AuthContext{}, domain.ErrUnauthenticated
	}
	return gw.Context()
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Validationf(msgInvalidPayload)
	}
	return nil
}

func validationDetail(err error) string {
	prefix := domain.ErrValidation.Error() + ": "
	msg := err.Error()
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
