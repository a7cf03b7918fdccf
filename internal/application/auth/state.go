package auth

import "context"

// OAuthStateData is the payload bound to a one-time state token for
// the duration of an authorization redirect round trip.
type OAuthStateData struct {
	Provider string
}

/*
OAuthStateStore
---------------
One-time CSRF state for the OAuth2 redirect flow.
Backed by Redis, or memory in dev.
*/
type OAuthStateStore interface {
	Create(ctx context.Context, data OAuthStateData) (token string, err error)
	Consume(ctx context.Context, token string) (OAuthStateData, error)
}
