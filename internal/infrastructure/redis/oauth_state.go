package redis

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/application/auth"
	goredis "github.com/redis/go-redis/v9"
)

// ErrStateNotFound covers both unknown and expired state tokens; the
// caller cannot tell the difference and must not try to.
var ErrStateNotFound = errors.New("oauth state not found or expired")

// OAuthStateStore keeps pending OAuth flow state in Redis under
// "oauth:state:<token>" keys with a bounded TTL.
type OAuthStateStore struct {
	client *Client
	ttl    time.Duration
}

func NewOAuthStateStore(client *Client, ttl time.Duration) *OAuthStateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &OAuthStateStore{client: client, ttl: ttl}
}

func stateKey(token string) string { return "oauth:state:" + token }

// Create stores state under a fresh random token and returns the token
// for the redirect URL.
func (s *OAuthStateStore) Create(ctx context.Context, state auth.OAuthStateData) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate oauth state token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	data, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("marshal oauth state: %w", err)
	}
	if err := s.client.rdb.Set(ctx, stateKey(token), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	return token, nil
}

// Consume fetches and deletes the state in one round trip. GETDEL makes
// the token single-use, so a replayed callback gets ErrStateNotFound.
func (s *OAuthStateStore) Consume(ctx context.Context, token string) (auth.OAuthStateData, error) {
	data, err := s.client.rdb.GetDel(ctx, stateKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return auth.OAuthStateData{}, ErrStateNotFound
		}
		return auth.OAuthStateData{}, fmt.Errorf("consume oauth state: %w", err)
	}

	var state auth.OAuthStateData
	if err := json.Unmarshal(data, &state); err != nil {
		return auth.OAuthStateData{}, fmt.Errorf("unmarshal oauth state: %w", err)
	}
	return state, nil
}
