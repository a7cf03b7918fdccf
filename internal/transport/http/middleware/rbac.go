package middleware

import (
	"net/http"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

// RequireRole gates a route on one authority. Assumes Auth() already ran.
func RequireRole(role string, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	canonical := domain.Canonicalize(role)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok {
				// Auth middleware not applied or context lost.
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			if !u.HasRole(canonical) {
				writeErr(w, r, domain.ErrForbidden())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
