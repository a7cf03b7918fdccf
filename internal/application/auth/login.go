package auth

import (
	"context"
	"strings"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

// Login authenticates by username or email and issues tokens.
// IMPORTANT: must not leak whether the account exists (avoid user
// enumeration). Unknown login and wrong password come back identical.
func (s *Service) Login(ctx context.Context, login, password string) (LoginResult, error) {
	login = strings.TrimSpace(login)

	if login == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	// One lookup covers both identifier shapes.
	u, err := s.users.GetByUsernameOrEmail(ctx, login)
	if err != nil {
		// Hide not-found behind invalid credentials.
		s.audit("login_failed", map[string]string{"login": login, "reason": "unknown_account"})
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		s.audit("login_failed", map[string]string{"login": login, "reason": "bad_password"})
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	if !u.Enabled {
		return LoginResult{}, domain.ErrAccountDisabled()
	}

	// Best effort; a failed timestamp write must not block the login.
	now := s.now()
	if err := s.users.RecordLogin(ctx, u.ID, now); err == nil {
		u.LastLoginAt = &now
	}

	toks, err := s.issueTokens(u)
	if err != nil {
		return LoginResult{}, err
	}

	s.audit("login_success", map[string]string{"user_id": u.ID, "username": u.Username})
	return LoginResult{User: u, Tokens: toks}, nil
}
