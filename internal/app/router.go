package app

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/mensa-backend/internal/config"
	"github.com/heartmarshall/mensa-backend/internal/domain"
	"github.com/heartmarshall/mensa-backend/internal/service/menu"
	"github.com/heartmarshall/mensa-backend/internal/transport/middleware"
	"github.com/heartmarshall/mensa-backend/internal/transport/rest"
)

type weekRegistry interface {
	Registered() []domain.WeekKey
}

// newRouter mounts the public API, the health probes and, when an admin
// token is configured, the admin endpoints.
func newRouter(
	cfg *config.Config,
	logger *slog.Logger,
	svc *menu.Service,
	weeks weekRegistry,
	health *rest.HealthHandler,
	limiter *middleware.RateLimiter,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	menuHandler := rest.NewMenuHandler(svc, logger)
	limited := limiter.Limit(cfg.RateLimit.RequestsPerMinute)
	mux.Handle("GET /api/v1/menu", limited(http.HandlerFunc(menuHandler.Menu)))
	mux.Handle("GET /api/v1/archive", limited(http.HandlerFunc(menuHandler.Archive)))
	mux.Handle("GET /api/v1/catalog", limited(http.HandlerFunc(menuHandler.Catalog)))

	if cfg.Admin.Token != "" {
		adminHandler := rest.NewAdminHandler(svc, weeks, logger)
		admin := middleware.AdminToken(cfg.Admin.Token)
		mux.Handle("POST /admin/purge", admin(http.HandlerFunc(adminHandler.Purge)))
		mux.Handle("GET /admin/weeks", admin(http.HandlerFunc(adminHandler.Weeks)))
	} else {
		logger.Info("admin endpoints disabled: no admin token configured")
	}

	return middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	)(mux)
}
