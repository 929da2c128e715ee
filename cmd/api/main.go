// Package main is the entrypoint for the userdir API server.
package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/userdir/userdir/internal/cache"
	"github.com/userdir/userdir/internal/config"
	"github.com/userdir/userdir/internal/handler"
	"github.com/userdir/userdir/internal/metrics"
	"github.com/userdir/userdir/internal/ratelimit"
	"github.com/userdir/userdir/internal/repository"
	"github.com/userdir/userdir/internal/server"
	"github.com/userdir/userdir/internal/service"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize metrics
	recorder, metricsHandler := initMetrics(cfg)

	// Initialize store and seed it
	store := repository.NewUserStore()
	seedStore(store, cfg.SeedFile, logger)

	// Initialize cache; Redis is optional
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL, cfg.RedisKeyPrefix)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		logger.Info("connected to Redis")
	}

	// Initialize services
	userService := service.NewUserService(store, recorder, logger)

	deps := server.RouterDeps{
		Config:         cfg,
		Logger:         logger,
		Users:          userService,
		Limiter:        initLimiter(cfg, cacheClient),
		Metrics:        recorder,
		MetricsHandler: metricsHandler,
	}
	if cacheClient != nil {
		deps.Cache = cacheClient
	}

	// Create and run server
	srv := server.New(server.NewRouter(deps), server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"users", store.Len(),
		"rate_limit", cfg.RateLimitEnabled,
		"auth", cfg.AuthEnabled,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var out io.Writer = os.Stdout
	if cfg.IsSilent() {
		out = io.Discard
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error", config.LogLevelSilent:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// initMetrics picks the recorder and the /metrics handler. A nil handler
// leaves /metrics unregistered.
func initMetrics(cfg *config.Config) (metrics.Recorder, http.Handler) {
	if !cfg.MetricsEnabled {
		return metrics.NewNoop(), nil
	}
	if cfg.MetricsBackend == "memory" {
		rec := metrics.NewInMemory()
		return rec, http.HandlerFunc(handler.NewMetricsHandler(rec).Metrics)
	}
	rec := metrics.NewPrometheus()
	return rec, rec.Handler()
}

// initLimiter returns nil when rate limiting is disabled. With Redis the
// window is shared across instances; otherwise it lives in this process.
func initLimiter(cfg *config.Config, c *cache.Cache) ratelimit.Limiter {
	if !cfg.RateLimitEnabled {
		return nil
	}
	if c != nil {
		return cache.NewRateLimiter(c, cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	return ratelimit.NewMemory(cfg.RateLimitMax, cfg.RateLimitWindow)
}

// seedStore loads the seed file. Failures are logged and the service starts
// with whatever was loaded.
func seedStore(store *repository.UserStore, path string, logger *slog.Logger) {
	entries, err := repository.LoadSeedFile(path)
	if err != nil {
		logger.Warn("failed to load seed data",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return
	}
	if entries == nil {
		return
	}

	res := store.Seed(entries)
	logger.Info("seed data loaded",
		slog.String("path", path),
		slog.Int("loaded", res.Loaded),
		slog.Int("skipped", res.Skipped),
	)
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
