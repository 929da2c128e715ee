// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/userdir/userdir/internal/auth"
)

// LogLevelSilent disables request and application logging.
const LogLevelSilent = "silent"

var (
	logLevels      = []string{"debug", "info", "warn", "error", LogLevelSilent}
	logFormats     = []string{"json", "text"}
	metricsBackend = []string{"prometheus", "memory"}
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv         string `env:"APP_ENV" envDefault:"development"`
	AppPort        int    `env:"APP_PORT" envDefault:"3000"`
	ServiceName    string `env:"SERVICE_NAME" envDefault:"userdir"`
	ServiceVersion string `env:"SERVICE_VERSION" envDefault:"1.0.0"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Cache (Redis). Optional: without it rate limits are kept in process.
	RedisURL       string `env:"REDIS_URL"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"userdir:"`

	// Rate limiting (fixed window per client IP)
	RateLimitEnabled bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitWindow  time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`
	RateLimitMax     int           `env:"RATE_LIMIT_MAX" envDefault:"100"`

	// Honour X-Forwarded-For / X-Real-IP for the client address. Enable only
	// behind a proxy that sets them; otherwise clients can pick their own key.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	// CORS configuration
	// Comma-separated list of allowed origins; "*" allows any origin.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// Maintenance mode
	MaintenanceEnabled     bool   `env:"MAINTENANCE_ENABLED" envDefault:"false"`
	MaintenanceMessage     string `env:"MAINTENANCE_MESSAGE" envDefault:"Service temporarily unavailable due to maintenance"`
	MaintenanceRetryAfter  int    `env:"MAINTENANCE_RETRY_AFTER" envDefault:"60"`
	MaintenanceAllowHealth bool   `env:"MAINTENANCE_ALLOW_HEALTH" envDefault:"true"`

	// Optional JSON array of users loaded at startup
	SeedFile string `env:"SEED_FILE" envDefault:"data/users.json"`

	// Metrics
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsBackend string `env:"METRICS_BACKEND" envDefault:"prometheus"`

	// API key check on mutating user routes
	AuthEnabled    bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthAPIKeyHash string `env:"AUTH_API_KEY_HASH"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// IsSilent reports whether logging is switched off.
func (c *Config) IsSilent() bool {
	return strings.EqualFold(c.LogLevel, LogLevelSilent)
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks values that parse but make no sense.
func (c *Config) Validate() error {
	var errs []error

	if c.AppPort < 1 || c.AppPort > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be between 1 and 65535, got %d", c.AppPort))
	}
	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of %s, got %q", strings.Join(logLevels, ", "), c.LogLevel))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.LogFormat)) {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of %s, got %q", strings.Join(logFormats, ", "), c.LogFormat))
	}
	if c.RateLimitEnabled {
		if c.RateLimitWindow <= 0 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow))
		}
		if c.RateLimitMax < 1 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_MAX must be at least 1, got %d", c.RateLimitMax))
		}
	}
	if c.MaxRequestBodySize < 1 {
		errs = append(errs, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be positive, got %d", c.MaxRequestBodySize))
	}
	if c.MaintenanceRetryAfter < 0 {
		errs = append(errs, fmt.Errorf("MAINTENANCE_RETRY_AFTER must not be negative, got %d", c.MaintenanceRetryAfter))
	}
	if !slices.Contains(metricsBackend, strings.ToLower(c.MetricsBackend)) {
		errs = append(errs, fmt.Errorf("METRICS_BACKEND must be one of %s, got %q", strings.Join(metricsBackend, ", "), c.MetricsBackend))
	}
	if c.AuthAPIKeyHash != "" {
		if err := auth.ValidateHash(c.AuthAPIKeyHash); err != nil {
			errs = append(errs, fmt.Errorf("AUTH_API_KEY_HASH: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Load reads an optional .env file, parses environment variables and
// returns a validated Config. Variables already set in the environment
// take precedence over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
