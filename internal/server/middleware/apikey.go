// Package middleware holds the HTTP middleware shared by raw chi routes
// and the typed API groups.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// apiKeyExempt paths never require authentication.
var apiKeyExempt = map[string]struct{}{
	"/healthz":      {},
	"/":             {},
	"/docs":         {},
	"/openapi.json": {},
}

// APIKey validates the X-Api-Key header against a shared secret. An
// empty expected key disables auth entirely so local development works
// without configuration. Static assets stay open; only /api and /mcp
// paths are protected.
func APIKey(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expected == "" {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := apiKeyExempt[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(r.URL.Path, "/api") && !strings.HasPrefix(r.URL.Path, "/mcp") {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-Api-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
				log.Warn().Str("path", r.URL.Path).Msg("rejected request: invalid or missing API key")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail": "Invalid or missing API key"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
