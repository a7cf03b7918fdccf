package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

// CSRFProtection validates Origin/Referer headers for cookie-based
// endpoints (refresh, logout). State-reading methods pass through.
func CSRFProtection(allowedOrigins []string, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	allowedHosts := make(map[string]struct{})
	for _, origin := range allowedOrigins {
		if u, err := url.Parse(origin); err == nil {
			allowedHosts[strings.ToLower(u.Host)] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if origin == "" {
				origin = r.Header.Get("Referer")
			}
			if origin == "" {
				writeErr(w, r, domain.New(domain.KindForbidden, "missing_origin", "Origin or Referer header required"))
				return
			}

			u, err := url.Parse(origin)
			if err != nil {
				writeErr(w, r, domain.New(domain.KindForbidden, "invalid_origin", "invalid Origin header"))
				return
			}

			if _, ok := allowedHosts[strings.ToLower(u.Host)]; !ok {
				writeErr(w, r, domain.New(domain.KindForbidden, "csrf_rejected", "cross-origin request not allowed"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// DefaultAllowedOrigins covers local development.
func DefaultAllowedOrigins() []string {
	return []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
	}
}
