package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// recoveredError is the 500 body written after a panic. Stack is only
// filled in development.
type recoveredError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Stack string `json:"stack,omitempty"`
}

// Recoverer is a middleware that recovers from panics.
// It logs the panic and returns a JSON 500 Internal Server Error.
func Recoverer(logger *slog.Logger, development bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				stack := string(debug.Stack())
				logger.Error("panic recovered",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.Any("panic", rvr),
					slog.String("stack", stack),
				)

				body := recoveredError{
					Error: "An unexpected error occurred",
					Code:  "INTERNAL_ERROR",
				}
				if development {
					body.Error = fmt.Sprint(rvr)
					body.Stack = stack
				}
				writeJSON(w, http.StatusInternalServerError, body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
