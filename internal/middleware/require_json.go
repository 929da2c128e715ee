package middleware

import (
	"mime"
	"net/http"
	"strings"
)

type unsupportedMediaBody struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Received string `json:"received"`
}

// RequireJSON rejects POST, PUT and PATCH requests under /api/ whose
// Content-Type is not JSON.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !hasBody(r.Method) || !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		ct := r.Header.Get("Content-Type")
		if isJSON(ct) {
			next.ServeHTTP(w, r)
			return
		}

		if ct == "" {
			ct = "none"
		}
		writeJSON(w, http.StatusUnsupportedMediaType, unsupportedMediaBody{
			Error:    "unsupported_media_type",
			Message:  "Requests must use Content-Type: application/json",
			Received: ct,
		})
	})
}

func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

// isJSON accepts application/json and application/*+json.
func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || (strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}
