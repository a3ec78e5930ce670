package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"imagestudio/internal/domain"
	"imagestudio/internal/gateway"
	"imagestudio/internal/generation"
	"imagestudio/internal/http/handlers"
	"imagestudio/internal/infra"
	"imagestudio/internal/providers/akool"
	"imagestudio/internal/session"
)

type nopProvider struct{}

func (nopProvider) CreateByPrompt(context.Context, domain.AuthContext, akool.CreateByPromptRequest) (domain.ImageData, error) {
	return domain.ImageData{ID: "job-1", ImageStatus: 1}, nil
}

func (nopProvider) CreateByButton(context.Context, domain.AuthContext, akool.CreateByButtonRequest) (domain.ImageData, error) {
	return domain.ImageData{ID: "job-2", ImageStatus: 1}, nil
}

func (nopProvider) InfoByModelID(_ context.Context, _ domain.AuthContext, id string) (domain.ImageData, error) {
	return domain.ImageData{ID: id, ImageStatus: 2}, nil
}

func newRouter(t *testing.T, rateLimit int) http.Handler {
	t.Helper()
	cfg := &infra.Config{
		SessionSecret:      "secret",
		SessionTTL:         time.Hour,
		SessionCookieName:  "studio_session",
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		DefaultLocale:      "en",
		RateLimitPerMin:    rateLimit,
	}
	app := handlers.NewApp(generation.NewClient(nopProvider{}), nil)
	return NewRouter(app, Deps{
		Config:   cfg,
		Logger:   infra.NopLogger(),
		Sessions: session.New(cfg.SessionTTL, func() *gateway.Gateway { return gateway.New(nil) }),
	})
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t, 0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID")
	}
}

func TestSwaggerDoc(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t, 0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("doc.json status = %d", rec.Code)
	}
	for _, path := range []string{"/api/login", "/api/generate", "/api/status/{id}"} {
		if !strings.Contains(rec.Body.String(), path) {
			t.Errorf("doc.json missing %s", path)
		}
	}
	if strings.Count(rec.Body.String(), "Not authenticated: the session holds no API key or token") != 3 {
		t.Error("doc.json should document 401 on generate, variant and status")
	}
}

func TestAPIRoutesUseSessionCookie(t *testing.T) {
	h := newRouter(t, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"authType":"apikey","apiKey":"k"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d %q", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Name != "studio_session" {
		t.Fatalf("session cookie not set: %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/status/job-1", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"_id":"job-1"`) {
		t.Fatalf("status = %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status/job-1", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status without cookie = %d", rec.Code)
	}
}

func TestLoginIsRateLimited(t *testing.T) {
	h := newRouter(t, 1)
	body := []byte(`{"authType":"apikey","apiKey":"k"}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("first login = %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body)))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second login = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/check", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("auth check should not be limited, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	newRouter(t, 0).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("Allow-Origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
