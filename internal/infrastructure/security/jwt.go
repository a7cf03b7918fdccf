package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/application/auth"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

// HS512 needs a key at least as wide as the hash output.
const minKeyBytes = 64

// JWTSigner issues and validates HS512 session tokens. The signer is
// immutable after construction and safe for concurrent use.
type JWTSigner struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTSigner loads the signing key once. A short key is flagged but
// tolerated so dev environments keep working.
func NewJWTSigner(secret, issuer string, accessTTL, refreshTTL time.Duration, lg zerolog.Logger) *JWTSigner {
	if len(secret) < minKeyBytes {
		lg.Warn().
			Int("key_bytes", len(secret)).
			Int("min_bytes", minKeyBytes).
			Msg("jwt signing key shorter than recommended for HS512")
	}
	return &JWTSigner{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock overrides the signer clock. Intended for tests.
func (s *JWTSigner) WithClock(now func() time.Time) *JWTSigner {
	if now != nil {
		s.now = now
	}
	return s
}

type sessionClaims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

func (s *JWTSigner) ttlFor(kind auth.TokenKind) time.Duration {
	if kind == auth.TokenKindRefresh {
		return s.refreshTTL
	}
	return s.accessTTL
}

func (s *JWTSigner) Issue(subject string, kind auth.TokenKind) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Kind: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttlFor(kind))),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (s *JWTSigner) Validate(token string) (auth.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method != jwt.SigningMethodHS512 {
			return nil, domain.ErrTokenMalformed()
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return auth.TokenClaims{}, mapJWTError(err)
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return auth.TokenClaims{}, domain.ErrTokenMalformed()
	}

	out := auth.TokenClaims{
		Subject: claims.Subject,
		Kind:    auth.TokenKind(claims.Kind),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// RemainingTTL reports time until expiry, clamped to zero. Invalid or
// expired tokens report zero rather than an error.
func (s *JWTSigner) RemainingTTL(token string) time.Duration {
	claims, err := s.Validate(token)
	if err != nil {
		return 0
	}
	rem := claims.ExpiresAt.Sub(s.now())
	if rem < 0 {
		return 0
	}
	return rem
}

// mapJWTError keeps jwt error types out of callers: signature problems,
// expiry, and everything else each get their own domain code.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.ErrTokenSignatureInvalid()
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired()
	default:
		return domain.ErrTokenMalformed()
	}
}
