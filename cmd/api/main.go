package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"imagestudio/internal/gateway"
	"imagestudio/internal/generation"
	"imagestudio/internal/http/handlers"
	httpapi "imagestudio/internal/http/httpapi"
	"imagestudio/internal/infra"
	"imagestudio/internal/infra/geoip"
	"imagestudio/internal/providers/akool"
	"imagestudio/internal/session"
)

// @title Image Studio API
// @version 1.0
// @description Session-scoped proxy to the Akool image generation API.
// @BasePath /
func main() {
	// Load .env when present
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	provider := akool.NewClient(akool.Options{
		BaseURL:        cfg.AkoolBaseURL,
		Logger:         &logger,
		RequestTimeout: cfg.AkoolTimeout,
	})

	sessions := session.New(cfg.SessionTTL,
		func() *gateway.Gateway { return gateway.New(provider) },
		session.WithEvict(func(id string, gw *gateway.Gateway) {
			gw.Logout()
			logger.Debug().Str("session_id", id).Msg("session evicted")
		}),
	)

	app := handlers.NewApp(generation.NewClient(provider), &logger)
	router := httpapi.NewRouter(app, httpapi.Deps{
		Config:   cfg,
		Logger:   logger,
		Sessions: sessions,
		Country:  resolver.LookupFunc(),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("provider", provider.BaseURL()).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
