package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/userdir/userdir/internal/config"
	"github.com/userdir/userdir/internal/handler"
	"github.com/userdir/userdir/internal/metrics"
	"github.com/userdir/userdir/internal/middleware"
	"github.com/userdir/userdir/internal/ratelimit"
	"github.com/userdir/userdir/internal/service"
)

// RouterDeps are the collaborators the router wires together.
type RouterDeps struct {
	Config *config.Config
	Logger *slog.Logger
	Users  *service.UserService

	// Limiter enforces the per-client budget; nil disables rate limiting.
	Limiter ratelimit.Limiter
	// Metrics receives request observations.
	Metrics metrics.Recorder
	// MetricsHandler serves /metrics; nil leaves the route unregistered.
	MetricsHandler http.Handler
	// Cache is pinged by the readiness probe; nil when Redis is not used.
	Cache handler.HealthChecker
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) *chi.Mux {
	cfg := deps.Config
	logger := deps.Logger
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewNoop()
	}

	info := handler.ServiceInfo{
		Name:        cfg.ServiceName,
		Version:     cfg.ServiceVersion,
		Environment: cfg.AppEnv,
	}
	h := handler.New(info)
	healthHandler := handler.NewHealthHandler(info, handler.RateLimitInfo{
		Enabled:  deps.Limiter != nil,
		WindowMs: cfg.RateLimitWindow.Milliseconds(),
		Max:      cfg.RateLimitMax,
	}, deps.Cache)
	userHandler := handler.NewUserHandler(deps.Users, logger)

	r := chi.NewRouter()

	// Global middleware
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.ResponseTime)
	if !cfg.IsSilent() {
		r.Use(middleware.Logger(logger))
	}
	r.Use(middleware.Recoverer(logger, cfg.IsDevelopment()))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.Security(middleware.SecurityConfig{Production: cfg.IsProduction()}))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.GetCORSAllowedOrigins())))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	r.Use(middleware.Maintenance(middleware.MaintenanceConfig{
		Enabled:           cfg.MaintenanceEnabled,
		Message:           cfg.MaintenanceMessage,
		RetryAfterSeconds: cfg.MaintenanceRetryAfter,
		AllowHealth:       cfg.MaintenanceAllowHealth,
	}))
	if deps.Limiter != nil {
		r.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: deps.Limiter,
			Metrics: deps.Metrics,
		}))
	}
	r.Use(middleware.RequireJSON)

	// Set before routes so mounted subrouters inherit them.
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/", h.Hello)

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", userHandler.List)
		r.Get("/summary", userHandler.Summary)
		r.Get("/export", userHandler.Export)
		r.Get("/{id}", userHandler.Get)

		r.Group(func(r chi.Router) {
			if cfg.AuthEnabled {
				r.Use(middleware.APIKey(middleware.APIKeyConfig{
					Logger: logger,
					Hash:   cfg.AuthAPIKeyHash,
				}))
			}
			r.Post("/", userHandler.Create)
			r.Put("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Delete)
		})
	})

	return r
}
