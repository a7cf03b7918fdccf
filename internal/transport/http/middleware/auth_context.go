package middleware

import (
	"context"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

type ctxKey string

const ctxUser ctxKey = "user"

// WithUser attaches the authenticated user to the request context.
func WithUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, ctxUser, u)
}

// UserFromContext returns the authenticated user set by Auth.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxUser).(domain.User)
	return u, ok && u.ID != ""
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	u, ok := UserFromContext(ctx)
	return u.ID, ok
}
