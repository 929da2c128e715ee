package handler

import (
	"fmt"
	"net/http"

	"github.com/userdir/userdir/internal/metrics"
)

// MetricsHandler exposes in-memory metrics in Prometheus text format. It
// backs /metrics when the Prometheus registry is not in use.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "userdir_http_requests_total %d\n", snap.HTTPRequests)
	writeMetric(w, "userdir_http_request_duration_seconds_sum %.6f\n", float64(snap.HTTPDurationTotalNs)/1e9)
	writeMetric(w, "userdir_http_rate_limited_total %d\n", snap.RateLimited)

	writeMetric(w, "userdir_users_operations_total{operation=\"create\"} %d\n", snap.UsersCreated)
	writeMetric(w, "userdir_users_operations_total{operation=\"update\"} %d\n", snap.UsersUpdated)
	writeMetric(w, "userdir_users_operations_total{operation=\"delete\"} %d\n", snap.UsersDeleted)
	writeMetric(w, "userdir_users_stored %d\n", snap.UsersTotal)
}

func writeMetric(w http.ResponseWriter, format string, value any) {
	_, _ = fmt.Fprintf(w, format, value)
}
