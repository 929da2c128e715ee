package middleware

import (
	"net/http"
	"strconv"
)

// MaintenanceConfig holds configuration for maintenance mode.
type MaintenanceConfig struct {
	Enabled           bool
	Message           string
	RetryAfterSeconds int
	// AllowHealth keeps the health endpoints reachable.
	AllowHealth bool
}

type maintenanceBody struct {
	Error             string `json:"error"`
	Message           string `json:"message"`
	RetryAfterSeconds int    `json:"retryAfterSeconds"`
}

var healthPaths = map[string]bool{
	"/health":       true,
	"/health/live":  true,
	"/health/ready": true,
}

// Maintenance answers every request with 503 while enabled.
func Maintenance(cfg MaintenanceConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.Message == "" {
		cfg.Message = "Service temporarily unavailable due to maintenance"
	}

	body := maintenanceBody{
		Error:             "maintenance_mode",
		Message:           cfg.Message,
		RetryAfterSeconds: cfg.RetryAfterSeconds,
	}
	retryAfter := strconv.Itoa(cfg.RetryAfterSeconds)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.AllowHealth && healthPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Retry-After", retryAfter)
			writeJSON(w, http.StatusServiceUnavailable, body)
		})
	}
}
