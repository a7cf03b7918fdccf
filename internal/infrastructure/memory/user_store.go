package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

type providerKey struct {
	provider   domain.Provider
	externalID string
}

// UserStore is the dev-mode identity store. Uniqueness rules match the
// Postgres store so the username generator behaves identically.
type UserStore struct {
	mu         sync.RWMutex
	byID       map[string]domain.User
	byEmail    map[string]string // email -> userID
	byUsername map[string]string // username -> userID
	byProvider map[providerKey]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:       make(map[string]domain.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
		byProvider: make(map[providerKey]string),
	}
}

func (r *UserStore) GetByUsernameOrEmail(ctx context.Context, login string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.byUsername[login]; ok {
		return r.byID[id], nil
	}
	if id, ok := r.byEmail[strings.ToLower(login)]; ok {
		return r.byID[id], nil
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *UserStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserStore) GetByProvider(ctx context.Context, provider domain.Provider, externalID string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byProvider[providerKey{provider, externalID}]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byUsername[username]
	return ok, nil
}

func (r *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[strings.ToLower(email)]
	return ok, nil
}

func (r *UserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// ID should already be set by the service; be defensive.
	if u.ID == "" {
		return domain.User{}, domain.ErrInternal(nil)
	}
	u.Email = strings.ToLower(u.Email)

	if _, exists := r.byUsername[u.Username]; exists {
		return domain.User{}, domain.ErrUsernameAlreadyExists()
	}
	if _, exists := r.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	r.byUsername[u.Username] = u.ID
	if u.ExternalID != "" {
		r.byProvider[providerKey{u.Provider, u.ExternalID}] = u.ID
	}
	return u, nil
}

func (r *UserStore) UpdateNames(ctx context.Context, userID, firstName, lastName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.FirstName, u.LastName = firstName, lastName
	u.UpdatedAt = time.Now()
	r.byID[userID] = u
	return nil
}

func (r *UserStore) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.LastLoginAt = &at
	u.UpdatedAt = time.Now()
	r.byID[userID] = u
	return nil
}
