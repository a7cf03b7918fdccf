package domain

// Provider tags how an account authenticates. Accounts never migrate
// between providers; equality is exact.
type Provider string

const (
	ProviderLocal  Provider = "LOCAL"
	ProviderGoogle Provider = "GOOGLE"
	ProviderGitHub Provider = "GITHUB"
)

func IsValidProvider(p string) bool {
	switch Provider(p) {
	case ProviderLocal, ProviderGoogle, ProviderGitHub:
		return true
	default:
		return false
	}
}

// OAuthProviders lists the external providers, in display order.
func OAuthProviders() []Provider {
	return []Provider{ProviderGoogle, ProviderGitHub}
}
