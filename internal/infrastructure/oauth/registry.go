package oauth

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/application/auth"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

// ClientCredentials is one provider's app registration.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (c ClientCredentials) configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type provider struct {
	config *oauth2.Config
	fetch  func(ctx context.Context, accessToken string) (auth.ProviderUserInfo, error)
}

// Registry holds the oauth2 configs and userinfo clients for every
// configured provider. Providers without credentials are simply absent.
type Registry struct {
	providers map[domain.Provider]provider
}

func NewRegistry(googleCreds, githubCreds ClientCredentials, googleClient *GoogleClient, githubClient *GitHubClient) *Registry {
	r := &Registry{providers: map[domain.Provider]provider{}}

	if googleCreds.configured() {
		r.providers[domain.ProviderGoogle] = provider{
			config: &oauth2.Config{
				ClientID:     googleCreds.ClientID,
				ClientSecret: googleCreds.ClientSecret,
				RedirectURL:  googleCreds.RedirectURL,
				Scopes:       []string{"openid", "email", "profile"},
				Endpoint:     google.Endpoint,
			},
			fetch: googleClient.UserInfo,
		}
	}
	if githubCreds.configured() {
		r.providers[domain.ProviderGitHub] = provider{
			config: &oauth2.Config{
				ClientID:     githubCreds.ClientID,
				ClientSecret: githubCreds.ClientSecret,
				RedirectURL:  githubCreds.RedirectURL,
				Scopes:       []string{"read:user", "user:email"},
				Endpoint:     github.Endpoint,
			},
			fetch: githubClient.UserInfo,
		}
	}
	return r
}

// Enabled reports whether the provider has credentials configured.
func (r *Registry) Enabled(p domain.Provider) bool {
	_, ok := r.providers[p]
	return ok
}

// AuthCodeURL builds the provider consent URL for the given state.
func (r *Registry) AuthCodeURL(p domain.Provider, state string) (string, error) {
	prov, ok := r.providers[p]
	if !ok {
		return "", domain.ErrUnsupportedProvider(string(p))
	}
	return prov.config.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// Exchange trades the callback code for an access token and fetches
// the provider's userinfo with it.
func (r *Registry) Exchange(ctx context.Context, p domain.Provider, code string) (auth.ProviderUserInfo, error) {
	prov, ok := r.providers[p]
	if !ok {
		return auth.ProviderUserInfo{}, domain.ErrUnsupportedProvider(string(p))
	}

	tok, err := prov.config.Exchange(ctx, code)
	if err != nil {
		return auth.ProviderUserInfo{}, domain.Wrap(domain.KindAuth, "code_exchange_failed", "authorization code exchange failed", err)
	}
	return prov.fetch(ctx, tok.AccessToken)
}
