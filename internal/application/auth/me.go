package auth

import (
	"context"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

func (s *Service) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// GetUserByLogin resolves a username or email, including token subjects.
func (s *Service) GetUserByLogin(ctx context.Context, login string) (domain.User, error) {
	return s.users.GetByUsernameOrEmail(ctx, login)
}
