// Package api provides the HTTP API of the notification service.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/orderpush/orderpush/internal/api/handler"
	"github.com/orderpush/orderpush/internal/api/middleware"
	"github.com/orderpush/orderpush/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	Notifier    handler.Notifier
	Providers   *resilience.Registry

	// TokenValidator protects /notify when set.
	TokenValidator middleware.TokenValidator

	// RateLimit is the per-IP request budget per minute for /notify.
	RateLimit int

	// RequireTLS rejects requests forwarded over plain HTTP.
	RequireTLS bool
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "orderpush-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.CORS())               // Any origin may call the hooks
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))
	r.Use(middleware.ContentTypeJSON)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Providers)
	notifyHandler := handler.NewNotifyHandler(cfg.Notifier, cfg.Logger)

	r.Get("/health", opsHandler.HealthCheck)
	r.Get("/health/providers", opsHandler.ProviderStatus)

	r.Route("/notify", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(middleware.PerMinute(cfg.RateLimit)))
		if cfg.TokenValidator != nil {
			r.Use(middleware.Auth(cfg.TokenValidator))
		}
		r.Use(middleware.RequireJSON(middleware.MaxNotifyBodyBytes))
		r.Post("/new-order", notifyHandler.NewOrder)
		r.Post("/status-change", notifyHandler.StatusChange)
	})

	return r
}
