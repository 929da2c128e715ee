package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"time"
)

// Logger emits one structured "http request" line per finished request.
// 5xx responses log at error level and 4xx at warn. Headers are never
// logged, so API keys stay out of the output.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrapResponseWriter(w)

			next.ServeHTTP(rw, r)

			requestID := GetRequestID(r.Context())
			if requestID == "" {
				requestID = "unknown"
			}

			logger.LogAttrs(r.Context(), levelForStatus(rw.status), "http request",
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.RequestURI()),
				slog.String("route", routePattern(r)),
				slog.Int("status_code", rw.status),
				slog.Float64("duration_ms", durationMillis(time.Since(start))),
				slog.Int("content_length", rw.bytes),
				slog.String("client_ip", ClientIP(r)),
				slog.String("user_agent", r.UserAgent()),
			)
		})
	}
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// durationMillis rounds to two decimals.
func durationMillis(d time.Duration) float64 {
	return math.Round(float64(d.Microseconds())/10) / 100
}
