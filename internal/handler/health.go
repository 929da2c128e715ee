package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RateLimitInfo describes the active rate limit policy.
type RateLimitInfo struct {
	Enabled  bool  `json:"enabled"`
	WindowMs int64 `json:"windowMs"`
	Max      int   `json:"max"`
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	info      ServiceInfo
	rateLimit RateLimitInfo
	cache     HealthChecker
	startedAt time.Time
	now       func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
// Pass nil for cache when Redis is not configured.
func NewHealthHandler(info ServiceInfo, rateLimit RateLimitInfo, cache HealthChecker) *HealthHandler {
	return &HealthHandler{
		info:      info,
		rateLimit: rateLimit,
		cache:     cache,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Uptime    float64        `json:"uptime"`
	Service   ServiceInfo    `json:"service"`
	RateLimit RateLimitInfo  `json:"rateLimit"`
	Check     string         `json:"check,omitempty"`
	Details   *HealthDetails `json:"details,omitempty"`
}

// HealthDetails lists dependency states for the readiness probe.
type HealthDetails struct {
	Dependencies map[string]string `json:"dependencies"`
}

func (h *HealthHandler) payload(check string) HealthResponse {
	now := h.now()
	return HealthResponse{
		Status:    "ok",
		Timestamp: now.UTC(),
		Uptime:    now.Sub(h.startedAt).Seconds(),
		Service:   h.info,
		RateLimit: h.rateLimit,
		Check:     check,
	}
}

// Health reports basic service metadata.
//
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.payload(""))
}

// Live is a liveness probe endpoint. No dependency checks.
//
// GET /health/live
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.payload("liveness"))
}

// Ready is a readiness probe endpoint.
// It returns 503 when a configured dependency is unreachable.
//
// GET /health/ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	deps := map[string]string{"datastore": "in-memory"}
	healthy := true

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			deps["cache"] = "error: " + err.Error()
			healthy = false
		} else {
			deps["cache"] = "ok"
		}
	} else {
		deps["cache"] = "n/a"
	}

	resp := h.payload("readiness")
	resp.Details = &HealthDetails{Dependencies: deps}

	status := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}
