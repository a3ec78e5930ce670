package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "imagestudio/internal/docs"
	"imagestudio/internal/gateway"
	"imagestudio/internal/http/handlers"
	"imagestudio/internal/infra"
	"imagestudio/internal/middleware"
	"imagestudio/internal/session"
)

// Deps are the collaborators the router wires into middleware.
type Deps struct {
	Config   *infra.Config
	Logger   infra.Logger
	Sessions *session.Store[gateway.Gateway]
	Country  middleware.CountryLookup
}

func NewRouter(app *handlers.App, deps Deps) http.Handler {
	cfg := deps.Config
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(deps.Logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(
			middleware.I18N(cfg.DefaultLocale, deps.Country),
			middleware.Sessions(middleware.SessionOptions{
				Secret:     cfg.SessionSecret,
				CookieName: cfg.SessionCookieName,
				TTL:        cfg.SessionTTL,
				Secure:     cfg.SessionCookieSecure,
			}, deps.Sessions),
		)

		r.With(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute)).Post("/login", app.Login)
		r.Post("/logout", app.Logout)
		r.Get("/auth/check", app.AuthCheck)

		r.Post("/generate", app.Generate)
		r.Post("/variant", app.Variant)
		r.Get("/status/{id}", app.Status)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
