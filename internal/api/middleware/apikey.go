package middleware

import (
	"crypto/subtle"
	"net/http"

	"promptparty/internal/api/apierr"
)

// APIKeyHeader is the header callers supply their key in. The "code"
// query parameter is accepted as a fallback.
const APIKeyHeader = "x-api-key"

// APIKey creates middleware requiring a caller-supplied API key.
// An empty configured key disables the check (local development).
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			supplied := r.Header.Get(APIKeyHeader)
			if supplied == "" {
				supplied = r.URL.Query().Get("code")
			}

			if subtle.ConstantTimeCompare([]byte(supplied), []byte(key)) != 1 {
				apierr.WriteUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
