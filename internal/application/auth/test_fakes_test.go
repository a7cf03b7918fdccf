package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

/*
Fakes for ports
*/

type providerKey struct {
	provider   domain.Provider
	externalID string
}

type fakeUserStore struct {
	mu sync.Mutex

	byID       map[string]domain.User
	byEmail    map[string]domain.User
	byUsername map[string]domain.User
	byProvider map[providerKey]domain.User

	// injected errors (if set, method returns error)
	getErr         error
	createErr      error
	updateNamesErr error
	recordLoginErr error
	existsErr      error

	// record calls
	updatedNames []struct{ id, first, last string }
	loginStamps  []string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:       map[string]domain.User{},
		byEmail:    map[string]domain.User{},
		byUsername: map[string]domain.User{},
		byProvider: map[providerKey]domain.User{},
	}
}

func (f *fakeUserStore) put(u domain.User) {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	f.byUsername[u.Username] = u
	if u.ExternalID != "" {
		f.byProvider[providerKey{u.Provider, u.ExternalID}] = u
	}
}

// seed inserts bypassing uniqueness checks. Test setup only.
func (f *fakeUserStore) seed(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.put(u)
}

func (f *fakeUserStore) GetByUsernameOrEmail(ctx context.Context, login string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	if u, ok := f.byUsername[login]; ok {
		return u, nil
	}
	if u, ok := f.byEmail[strings.ToLower(login)]; ok {
		return u, nil
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	u, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserStore) GetByProvider(ctx context.Context, provider domain.Provider, externalID string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	u, ok := f.byProvider[providerKey{provider, externalID}]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byUsername[username]
	return ok, nil
}

func (f *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byEmail[strings.ToLower(email)]
	return ok, nil
}

// Create enforces the same uniqueness rules as the real store so race
// behavior can be exercised.
func (f *fakeUserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, ok := f.byUsername[u.Username]; ok {
		return domain.User{}, domain.ErrUsernameAlreadyExists()
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	u.CreatedAt = time.Now()
	f.put(u)
	return u, nil
}

func (f *fakeUserStore) UpdateNames(ctx context.Context, userID, firstName, lastName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateNamesErr != nil {
		return f.updateNamesErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.FirstName, u.LastName = firstName, lastName
	f.put(u)
	f.updatedNames = append(f.updatedNames, struct{ id, first, last string }{userID, firstName, lastName})
	return nil
}

func (f *fakeUserStore) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.recordLoginErr != nil {
		return f.recordLoginErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.LastLoginAt = &at
	f.put(u)
	f.loginStamps = append(f.loginStamps, userID)
	return nil
}

type fakeHasher struct {
	hashFn    func(pw string) (string, error)
	compareFn func(hash, pw string) error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Compare(hash string, password string) error {
	if h.compareFn != nil {
		return h.compareFn(hash, password)
	}
	if hash == "hash:"+password {
		return nil
	}
	return errors.New("mismatch")
}

type fakeSigner struct {
	mu sync.Mutex

	issueErr    error
	validateErr error

	issued map[string]TokenClaims
}

func newFakeSigner() *fakeSigner {
	return &fakeSigner{issued: map[string]TokenClaims{}}
}

func (s *fakeSigner) Issue(subject string, kind TokenKind) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.issueErr != nil {
		return "", s.issueErr
	}
	tok := "jwt:" + string(kind) + ":" + subject
	s.issued[tok] = TokenClaims{
		Subject:   subject,
		Kind:      kind,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return tok, nil
}

func (s *fakeSigner) Validate(token string) (TokenClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.validateErr != nil {
		return TokenClaims{}, s.validateErr
	}
	c, ok := s.issued[token]
	if !ok {
		return TokenClaims{}, domain.ErrTokenMalformed()
	}
	return c, nil
}

func (s *fakeSigner) RemainingTTL(token string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.issued[token]
	if !ok {
		return 0
	}
	rem := time.Until(c.ExpiresAt)
	if rem < 0 {
		return 0
	}
	return rem
}

type fakeResolver struct {
	// resolveFn overrides; default passes the direct attribute through.
	resolveFn func(info ProviderUserInfo) string
}

func (r *fakeResolver) ResolveEmail(ctx context.Context, info ProviderUserInfo) string {
	if r.resolveFn != nil {
		return r.resolveFn(info)
	}
	return strings.ToLower(strings.TrimSpace(info.Email))
}

/*
Service factory for tests
*/

func newSvcForTest(t *testing.T) (*Service, *fakeUserStore, *fakeHasher, *fakeSigner, *fakeResolver, *[]auditEntry) {
	t.Helper()

	users := newFakeUserStore()
	hasher := &fakeHasher{}
	signer := newFakeSigner()
	resolver := &fakeResolver{}

	roles, err := domain.NewRoleTable(domain.RoleDeveloper, domain.RoleContractor)
	if err != nil {
		t.Fatalf("role table: %v", err)
	}

	var mu sync.Mutex
	audits := &[]auditEntry{}
	svc := NewService(users, hasher, signer, resolver, roles, Config{
		AccessTTL: 15 * time.Minute,
	}).WithAudit(func(action string, fields map[string]string) {
		cp := map[string]string{}
		for k, v := range fields {
			cp[k] = v
		}
		mu.Lock()
		*audits = append(*audits, auditEntry{action: action, fields: cp})
		mu.Unlock()
	})

	return svc, users, hasher, signer, resolver, audits
}

/*
Small assertions
*/

func requireDomainCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	got := domainCode(err)
	if got != wantCode {
		t.Fatalf("expected domain code %q, got %q (err=%v)", wantCode, got, err)
	}
}

func lastAudit(audits *[]auditEntry) (auditEntry, bool) {
	if audits == nil || len(*audits) == 0 {
		return auditEntry{}, false
	}
	return (*audits)[len(*audits)-1], true
}

func requireAuditAction(t *testing.T, audits *[]auditEntry, wantAction string) auditEntry {
	t.Helper()
	e, ok := lastAudit(audits)
	if !ok {
		t.Fatalf("expected audit entry, got none")
	}
	if e.action != wantAction {
		t.Fatalf("expected audit action %q, got %q", wantAction, e.action)
	}
	return e
}

func requireAuditField(t *testing.T, e auditEntry, k, want string) {
	t.Helper()
	got := strings.TrimSpace(e.fields[k])
	if got != want {
		t.Fatalf("expected audit field %q=%q, got %q (all=%v)", k, want, got, e.fields)
	}
}
