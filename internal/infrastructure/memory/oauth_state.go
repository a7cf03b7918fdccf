package memory

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/application/auth"
)

// stateTTL matches the default of the Redis-backed store.
const stateTTL = 10 * time.Minute

// OAuthStateStore is the in-process fallback used when Redis is not
// configured. Expired entries are swept lazily on Create.
type OAuthStateStore struct {
	mu     sync.Mutex
	states map[string]stateEntry
}

type stateEntry struct {
	data      auth.OAuthStateData
	expiresAt time.Time
}

func NewOAuthStateStore() *OAuthStateStore {
	return &OAuthStateStore{states: make(map[string]stateEntry)}
}

func (s *OAuthStateStore) Create(ctx context.Context, state auth.OAuthStateData) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, v := range s.states {
		if now.After(v.expiresAt) {
			delete(s.states, k)
		}
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	s.states[token] = stateEntry{data: state, expiresAt: now.Add(stateTTL)}
	return token, nil
}

// Consume removes the entry whether it was valid or expired, so a token
// can never be presented twice.
func (s *OAuthStateStore) Consume(ctx context.Context, token string) (auth.OAuthStateData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.states[token]
	delete(s.states, token)
	if !ok || time.Now().After(entry.expiresAt) {
		return auth.OAuthStateData{}, errors.New("oauth state not found or expired")
	}
	return entry.data, nil
}
