package auth

import (
	"context"
	"time"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

/*
UserStore
---------
Persistence port for identities.
Only describes WHAT the identity service needs, not HOW it's stored.
Create must enforce the username/email/provider uniqueness constraints
and surface violations as the matching domain conflict errors; the
username generator relies on that to detect races.
*/
type UserStore interface {
	GetByUsernameOrEmail(ctx context.Context, login string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByProvider(ctx context.Context, provider domain.Provider, externalID string) (domain.User, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	Create(ctx context.Context, u domain.User) (domain.User, error)
	UpdateNames(ctx context.Context, userID, firstName, lastName string) error
	RecordLogin(ctx context.Context, userID string, at time.Time) error
}

/*
PasswordHasher
--------------
Abstracts bcrypt / argon2.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies signed session tokens. Access and refresh tokens
share one signing key but carry a kind claim and independent TTLs.
Validate is pure and safe for concurrent use.
*/
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

type TokenClaims struct {
	Subject   string
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenSigner interface {
	Issue(subject string, kind TokenKind) (string, error)
	Validate(token string) (TokenClaims, error)
	// RemainingTTL reports time until expiry, clamped to zero.
	RemainingTTL(token string) time.Duration
}

/*
EmailResolver
-------------
Resolves a usable email address from provider userinfo, including any
provider-specific fallback fetch. Returns "" when no email could be
resolved; network and API failures are absorbed into "".
*/
type EmailResolver interface {
	ResolveEmail(ctx context.Context, info ProviderUserInfo) string
}

// ProviderUserInfo is the raw callback payload: normalized userinfo
// attributes plus the provider access token for fallback API calls.
type ProviderUserInfo struct {
	Provider    domain.Provider
	ExternalID  string
	Email       string
	Name        string
	GivenName   string
	FamilyName  string
	AccessToken string
}
