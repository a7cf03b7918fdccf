package middleware

import (
	"crypto/subtle"
	"net/http"
)

// InternalAuth gates service-to-service routes behind a shared secret
// header. An empty secret fails closed.
func InternalAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "internal auth misconfigured", http.StatusInternalServerError)
				return
			}

			got := r.Header.Get("X-Internal-Secret")
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
