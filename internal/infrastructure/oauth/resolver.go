package oauth

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/application/auth"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

const defaultResolveTimeout = 5 * time.Second

// Resolver picks a usable email out of provider userinfo. Google-class
// providers only ever expose the direct attribute; GitHub may hide the
// address and requires the /user/emails fallback. Failures along the
// way degrade to "no email", never to an error: the caller decides what
// an absent email means.
type Resolver struct {
	github  *GitHubClient
	timeout time.Duration
	lg      zerolog.Logger
}

func NewResolver(github *GitHubClient, lg zerolog.Logger) *Resolver {
	return &Resolver{
		github:  github,
		timeout: defaultResolveTimeout,
		lg:      lg,
	}
}

// WithTimeout bounds the fallback fetch. Intended for tests.
func (r *Resolver) WithTimeout(d time.Duration) *Resolver {
	if d > 0 {
		r.timeout = d
	}
	return r
}

func (r *Resolver) ResolveEmail(ctx context.Context, info auth.ProviderUserInfo) string {
	if email := normalizeEmail(info.Email); email != "" {
		return email
	}
	if info.Provider != domain.ProviderGitHub {
		return ""
	}
	return r.resolveGitHub(ctx, info.AccessToken)
}

// resolveGitHub queries the email listing and picks by priority:
// primary+verified, then any verified, then any non-empty (logged as
// degraded). The fetch is bounded; no store work happens while waiting.
func (r *Resolver) resolveGitHub(ctx context.Context, accessToken string) string {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	emails, err := r.github.Emails(ctx, accessToken)
	if err != nil {
		r.lg.Warn().Err(err).Msg("github email listing failed, treating as no email")
		return ""
	}
	return pickGitHubEmail(emails, r.lg)
}

func pickGitHubEmail(emails []GitHubEmail, lg zerolog.Logger) string {
	var verified, any string
	for _, e := range emails {
		addr := normalizeEmail(e.Email)
		if addr == "" {
			continue
		}
		if e.Primary && e.Verified {
			return addr
		}
		if e.Verified && verified == "" {
			verified = addr
		}
		if any == "" {
			any = addr
		}
	}
	if verified != "" {
		return verified
	}
	if any != "" {
		lg.Warn().Msg("no verified github email, using unverified address")
	}
	return any
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
