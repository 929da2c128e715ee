package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "userdir"

// PrometheusRecorder exports metrics through its own registry, so several
// instances (one per test, for example) never collide.
type PrometheusRecorder struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	rateLimited     prometheus.Counter
	userOps         *prometheus.CounterVec
	usersTotal      prometheus.Gauge
}

// NewPrometheus creates a Recorder backed by a fresh Prometheus registry.
func NewPrometheus() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	p := &PrometheusRecorder{
		registry: reg,
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "route", "status_code"},
		),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}),
		userOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "users",
				Name:      "operations_total",
				Help:      "Successful user mutations by operation",
			},
			[]string{"operation"},
		),
		usersTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "users",
			Name:      "stored",
			Help:      "Number of users currently stored",
		}),
	}

	reg.MustRegister(p.requestDuration, p.rateLimited, p.userOps, p.usersTotal)
	return p
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry returns the underlying registry.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

// ObserveHTTPRequest records request latency by route pattern.
func (p *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	p.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// IncRateLimited increments the rejected request counter.
func (p *PrometheusRecorder) IncRateLimited() {
	p.rateLimited.Inc()
}

// IncUserCreated increments the created counter.
func (p *PrometheusRecorder) IncUserCreated() {
	p.userOps.WithLabelValues("create").Inc()
}

// IncUserUpdated increments the updated counter.
func (p *PrometheusRecorder) IncUserUpdated() {
	p.userOps.WithLabelValues("update").Inc()
}

// IncUserDeleted increments the deleted counter.
func (p *PrometheusRecorder) IncUserDeleted() {
	p.userOps.WithLabelValues("delete").Inc()
}

// SetUsersTotal sets the stored users gauge.
func (p *PrometheusRecorder) SetUsersTotal(n int) {
	p.usersTotal.Set(float64(n))
}
