package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	// Optional role names; validated against the role table.
	// Empty means the local signup default.
	Roles []string
}

// Register creates a local password account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Username == "" {
		return RegisterResult{}, domain.ErrMissingField("username")
	}
	if in.Email == "" {
		return RegisterResult{}, domain.ErrMissingField("email")
	}
	if in.Password == "" {
		return RegisterResult{}, domain.ErrMissingField("password")
	}

	roles, err := s.resolveRequestedRoles(in.Roles)
	if err != nil {
		return RegisterResult{}, err
	}

	if taken, err := s.users.ExistsByUsername(ctx, in.Username); err != nil {
		return RegisterResult{}, err
	} else if taken {
		return RegisterResult{}, domain.ErrUsernameAlreadyExists()
	}
	if taken, err := s.users.ExistsByEmail(ctx, in.Email); err != nil {
		return RegisterResult{}, err
	} else if taken {
		return RegisterResult{}, domain.ErrEmailAlreadyExists()
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return RegisterResult{}, domain.ErrHashFailed(err)
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Provider:     domain.ProviderLocal,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Enabled:      true,
		Roles:        roles,
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return RegisterResult{}, err
	}

	toks, err := s.issueTokens(created)
	if err != nil {
		return RegisterResult{}, err
	}

	s.audit("register", map[string]string{
		"user_id":  created.ID,
		"username": created.Username,
		"email":    created.Email,
	})
	return RegisterResult{User: created, Tokens: toks}, nil
}

// resolveRequestedRoles normalizes and validates role names, defaulting
// to the local signup role when none were requested.
func (s *Service) resolveRequestedRoles(names []string) ([]string, error) {
	if len(names) == 0 {
		return []string{s.roles.LocalDefault()}, nil
	}

	seen := map[string]bool{}
	out := make([]string, 0, len(names))
	for _, n := range names {
		canonical, err := s.roles.Resolve(n)
		if err != nil {
			return nil, err
		}
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		out = append(out, canonical)
	}
	return out, nil
}
