package auth

import (
	"time"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

type Service struct {
	users  UserStore
	hasher PasswordHasher
	signer TokenSigner
	emails EmailResolver
	roles  *domain.RoleTable

	accessTTL           time.Duration
	maxUsernameAttempts int
	now                 func() time.Time
	audit               func(action string, fields map[string]string)
}

type Config struct {
	AccessTTL time.Duration
	// Upper bound on username suffix probing before giving up.
	MaxUsernameAttempts int
}

func NewService(
	users UserStore,
	hasher PasswordHasher,
	signer TokenSigner,
	emails EmailResolver,
	roles *domain.RoleTable,
	cfg Config,
) *Service {
	attempts := cfg.MaxUsernameAttempts
	if attempts <= 0 {
		attempts = 100
	}
	return &Service{
		users:  users,
		hasher: hasher,
		signer: signer,
		emails: emails,
		roles:  roles,

		accessTTL:           cfg.AccessTTL,
		maxUsernameAttempts: attempts,
		now:                 time.Now,
		audit:               func(string, map[string]string) {},
	}
}

// AuthTokens is the common token output for handlers/DTO mapping.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64  // seconds
	TokenType    string // "Bearer"
}

type RegisterResult struct {
	User   domain.User
	Tokens AuthTokens
}

type LoginResult struct {
	User   domain.User
	Tokens AuthTokens
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// issueTokens signs an access/refresh pair. The subject claim is the
// username: other services consume tokens by username, never by
// internal ID.
func (s *Service) issueTokens(u domain.User) (AuthTokens, error) {
	access, err := s.signer.Issue(u.Username, TokenKindAccess)
	if err != nil {
		return AuthTokens{}, domain.ErrTokenSignFailed(err)
	}

	refresh, err := s.signer.Issue(u.Username, TokenKindRefresh)
	if err != nil {
		return AuthTokens{}, domain.ErrTokenSignFailed(err)
	}

	return AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}
