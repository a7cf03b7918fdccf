package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

// Reconcile maps a provider callback onto a local account: matches an
// existing identity, or provisions a new one. The returned flag reports
// whether an account was created.
func (s *Service) Reconcile(ctx context.Context, info ProviderUserInfo) (LoginResult, bool, error) {
	if !domain.IsValidProvider(string(info.Provider)) || info.Provider == domain.ProviderLocal {
		return LoginResult{}, false, domain.ErrUnsupportedProvider(string(info.Provider))
	}

	email := s.emails.ResolveEmail(ctx, info)
	if email == "" {
		s.audit("oauth_email_unresolvable", map[string]string{"provider": string(info.Provider)})
		return LoginResult{}, false, domain.ErrEmailUnresolvable(string(info.Provider))
	}
	info.Email = email

	// Fast path: the provider binding is already known.
	u, err := s.users.GetByProvider(ctx, info.Provider, info.ExternalID)
	switch {
	case err == nil:
		return s.oauthLogin(ctx, u, info)
	case !isNotFoundError(err):
		return LoginResult{}, false, err
	}

	// The email may belong to an account registered another way.
	u, err = s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Provider != info.Provider {
			s.audit("oauth_provider_mismatch", map[string]string{
				"provider":   string(info.Provider),
				"registered": string(u.Provider),
			})
			return LoginResult{}, false, domain.ErrProviderMismatch(string(u.Provider))
		}
		return s.oauthLogin(ctx, u, info)
	case !isNotFoundError(err):
		return LoginResult{}, false, err
	}

	created, err := s.createOAuthUser(ctx, info)
	if err != nil {
		return LoginResult{}, false, err
	}

	toks, err := s.issueTokens(created)
	if err != nil {
		return LoginResult{}, false, err
	}

	s.audit("oauth_register", map[string]string{
		"user_id":  created.ID,
		"username": created.Username,
		"provider": string(info.Provider),
	})
	return LoginResult{User: created, Tokens: toks}, true, nil
}

// oauthLogin refreshes profile names when they changed, stamps the
// login, and issues tokens for an already-known account.
func (s *Service) oauthLogin(ctx context.Context, u domain.User, info ProviderUserInfo) (LoginResult, bool, error) {
	if !u.Enabled {
		return LoginResult{}, false, domain.ErrAccountDisabled()
	}

	var fresh domain.User
	fresh.SetFullName(info.DisplayName())
	if fresh.FirstName != "" && (fresh.FirstName != u.FirstName || fresh.LastName != u.LastName) {
		if err := s.users.UpdateNames(ctx, u.ID, fresh.FirstName, fresh.LastName); err != nil {
			return LoginResult{}, false, err
		}
		u.FirstName, u.LastName = fresh.FirstName, fresh.LastName
	}

	now := s.now()
	if err := s.users.RecordLogin(ctx, u.ID, now); err == nil {
		u.LastLoginAt = &now
	}

	toks, err := s.issueTokens(u)
	if err != nil {
		return LoginResult{}, false, err
	}

	s.audit("oauth_login", map[string]string{
		"user_id":  u.ID,
		"provider": string(info.Provider),
	})
	return LoginResult{User: u, Tokens: toks}, false, nil
}

// createOAuthUser provisions a new account with a generated username.
// The store's uniqueness constraint arbitrates concurrent generators:
// losing a race surfaces as a username conflict and we move to the next
// candidate instead of failing the signup.
func (s *Service) createOAuthUser(ctx context.Context, info ProviderUserInfo) (domain.User, error) {
	base := usernameBase(info.DisplayName(), info.Email)

	u := domain.User{
		Provider:   info.Provider,
		ExternalID: info.ExternalID,
		Email:      info.Email,
		// Provider-asserted addresses are trusted as verified.
		EmailVerified: true,
		Enabled:       true,
		Roles:         []string{s.roles.OAuthDefault()},
	}
	u.SetFullName(info.DisplayName())

	for attempt := 0; attempt < s.maxUsernameAttempts; attempt++ {
		candidate := usernameCandidate(base, attempt)

		taken, err := s.users.ExistsByUsername(ctx, candidate)
		if err != nil {
			return domain.User{}, err
		}
		if taken {
			continue
		}

		u.ID = uuid.NewString()
		u.Username = candidate
		created, err := s.users.Create(ctx, u)
		if err == nil {
			return created, nil
		}
		if domain.Is(err, "username_already_exists") {
			// Lost the race for this candidate; try the next suffix.
			continue
		}
		return domain.User{}, err
	}

	return domain.User{}, domain.ErrUsernameGenerationExhausted()
}

func isNotFoundError(err error) bool {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Kind == domain.KindNotFound
	}
	return false
}

// DisplayName delegates to the resolved-identity formatting rules.
func (i ProviderUserInfo) DisplayName() string {
	ri := domain.ResolvedIdentity{
		Name:       i.Name,
		GivenName:  i.GivenName,
		FamilyName: i.FamilyName,
	}
	return ri.DisplayName()
}
