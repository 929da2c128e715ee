package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/userdir/userdir/internal/auth"
)

// APIKeyConfig holds configuration for the API key middleware.
type APIKeyConfig struct {
	Logger *slog.Logger
	// Hash is an Argon2id hash of the accepted key. When empty any
	// non-blank key is accepted.
	Hash string
}

// APIKey returns a middleware that requires an API key in X-API-Key or
// "Authorization: Bearer". Keys that verified once are remembered by
// fingerprint so Argon2 runs once per key.
func APIKey(cfg APIKeyConfig) func(http.Handler) http.Handler {
	var verified sync.Map

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, present := extractAPIKey(r)
			if !present {
				logAuthFailure(cfg.Logger, r, "missing_key")
				writeAuthError(w, "API key required")
				return
			}
			if strings.TrimSpace(key) == "" {
				logAuthFailure(cfg.Logger, r, "blank_key")
				writeAuthError(w, "Invalid API key")
				return
			}

			principal := &auth.Principal{Fingerprint: auth.Fingerprint(key)}

			if cfg.Hash != "" {
				if _, ok := verified.Load(principal.Fingerprint); !ok {
					match, err := auth.VerifyKey(key, cfg.Hash)
					if err != nil {
						cfg.Logger.Error("api key hash unusable",
							slog.String("error", err.Error()),
							slog.String("request_id", GetRequestID(r.Context())),
						)
					}
					if !match {
						logAuthFailure(cfg.Logger, r, "invalid_key")
						writeAuthError(w, "Invalid API key")
						return
					}
					verified.Store(principal.Fingerprint, struct{}{})
				}
				principal.Verified = true
			}

			ctx := auth.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractAPIKey extracts the API key from the request.
// "Authorization: Bearer <key>" wins over "X-API-Key: <key>".
func extractAPIKey(r *http.Request) (string, bool) {
	if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return bearer, true
	}

	values, ok := r.Header["X-Api-Key"]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", ClientIP(r)),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

// writeAuthError writes a 401 Unauthorized response.
func writeAuthError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, errorBody{Error: message, Code: "UNAUTHORIZED"})
}
