package auth

import (
	"context"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

// Refresh validates a refresh-kind token and issues a fresh pair.
// An access token presented here is rejected even if otherwise valid.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthTokens, domain.User, error) {
	if refreshToken == "" {
		return AuthTokens{}, domain.User{}, domain.ErrTokenMissing()
	}

	claims, err := s.signer.Validate(refreshToken)
	if err != nil {
		return AuthTokens{}, domain.User{}, err
	}
	if claims.Kind != TokenKindRefresh {
		return AuthTokens{}, domain.User{}, domain.ErrTokenWrongKind(string(TokenKindRefresh))
	}

	// The subject claim is the username.
	u, err := s.users.GetByUsernameOrEmail(ctx, claims.Subject)
	if err != nil {
		// The subject vanished since issuance; treat as a dead token.
		return AuthTokens{}, domain.User{}, domain.ErrTokenMalformed()
	}
	if !u.Enabled {
		return AuthTokens{}, domain.User{}, domain.ErrAccountDisabled()
	}

	toks, err := s.issueTokens(u)
	if err != nil {
		return AuthTokens{}, domain.User{}, err
	}

	s.audit("token_refresh", map[string]string{"user_id": u.ID})
	return toks, u, nil
}
