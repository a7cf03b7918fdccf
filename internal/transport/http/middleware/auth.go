package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/application/auth"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

// TokenValidator is the signer surface the middleware needs.
type TokenValidator interface {
	Validate(token string) (auth.TokenClaims, error)
}

// UserGetter loads the token subject (a username) from the store.
type UserGetter interface {
	GetByUsernameOrEmail(ctx context.Context, login string) (domain.User, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth verifies Authorization: Bearer <access_token>, loads the subject,
// and injects the user into request context. Refresh tokens are rejected
// here; they are only accepted by the refresh endpoint.
func Auth(validator TokenValidator, users UserGetter, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			parts := strings.SplitN(h, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeErr(w, r, domain.ErrTokenMalformed())
				return
			}

			raw := strings.TrimSpace(parts[1])
			if raw == "" {
				writeErr(w, r, domain.ErrTokenMalformed())
				return
			}

			claims, err := validator.Validate(raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			if claims.Kind != auth.TokenKindAccess {
				writeErr(w, r, domain.ErrTokenWrongKind(string(auth.TokenKindAccess)))
				return
			}
			if strings.TrimSpace(claims.Subject) == "" {
				writeErr(w, r, domain.ErrTokenMalformed())
				return
			}

			u, err := users.GetByUsernameOrEmail(r.Context(), claims.Subject)
			if err != nil {
				// A signed token for a missing user is treated the same as
				// a malformed token; store failures pass through.
				if domain.Is(err, "user_not_found") {
					writeErr(w, r, domain.ErrTokenMalformed())
					return
				}
				writeErr(w, r, err)
				return
			}
			if !u.Enabled {
				writeErr(w, r, domain.ErrAccountDisabled())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}
