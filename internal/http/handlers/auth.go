package handlers

import (
	"errors"
	"net/http"

	"imagestudio/internal/domain"
	"imagestudio/internal/middleware"
)

// Login godoc
// @Summary Log in to the provider
// @Description Stores an API key, or exchanges client credentials for a bearer token, in the caller's session.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "authType is apikey or token"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.Envelope
// @Failure 401 {object} domain.Envelope
// @Failure 500 {object} domain.Envelope
// @Router /api/login [post]
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		a.error(w, r, http.StatusInternalServerError, msgInternal)
		return
	}
	var req domain.LoginRequest
	if err := decode(r, &req); err != nil {
		a.error(w, r, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	res, err := sess.Gateway().Login(r.Context(), req.Credentials())
	if err != nil {
		a.loginFailed(w, r, err)
		return
	}
	a.log(r).Info().Str("auth_type", string(res.Mode)).Msg("login succeeded")
	a.json(w, http.StatusOK, domain.LoginResponse{
		Success:  true,
		AuthType: res.Mode,
		Message:  translate(r, res.Message),
		Token:    res.Token,
	})
}

func (a *App) loginFailed(w http.ResponseWriter, r *http.Request, err error) {
	var perr *domain.ProviderError
	switch {
	case errors.Is(err, domain.ErrValidation):
		a.error(w, r, http.StatusBadRequest, validationDetail(err))
	case errors.As(err, &perr):
		a.log(r).Warn().Int("code", perr.Code).Msg("token exchange rejected")
		a.json(w, http.StatusUnauthorized, domain.Envelope{
			Success: false,
			Error:   translate(r, msgTokenFailed),
			Message: perr.Message,
			Code:    perr.Code,
		})
	case errors.Is(err, domain.ErrAuth):
		a.log(r).Warn().Err(err).Msg("token exchange failed")
		a.json(w, http.StatusUnauthorized, domain.Envelope{
			Success: false,
			Error:   translate(r, msgAuthFailed),
			Message: err.Error(),
		})
	default:
		a.log(r).Error().Err(err).Msg("login failed")
		a.json(w, http.StatusInternalServerError, domain.Envelope{
			Success: false,
			Error:   translate(r, msgInternal),
			Message: err.Error(),
		})
	}
}

// Logout godoc
// @Summary Log out
// @Description Clears the auth context and destroys the session.
// @Tags auth
// @Produce json
// @Success 200 {object} domain.MessageResponse
// @Failure 500 {object} domain.Envelope
// @Router /api/logout [post]
func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		a.error(w, r, http.StatusInternalServerError, msgLogoutFailed)
		return
	}
	if gw, ok := sess.Existing(); ok {
		gw.Logout()
	}
	sess.Destroy(w)
	a.json(w, http.StatusOK, domain.MessageResponse{Success: true, Message: translate(r, msgLoggedOut)})
}

// AuthCheck godoc
// @Summary Check authentication
// @Tags auth
// @Produce json
// @Success 200 {object} domain.AuthCheckResponse
// @Router /api/auth/check [get]
func (a *App) AuthCheck(w http.ResponseWriter, r *http.Request) {
	var resp domain.AuthCheckResponse
	if sess, ok := middleware.SessionFromContext(r.Context()); ok {
		if gw, ok := sess.Existing(); ok {
			st := gw.Check()
			resp = domain.AuthCheckResponse{Authenticated: st.Authenticated, AuthType: st.Mode}
		}
	}
	a.json(w, http.StatusOK, resp)
}
