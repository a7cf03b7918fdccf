package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// ---------- fakes ----------

type fakeHealth struct{}

func (fakeHealth) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (fakeHealth) Readyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

type fakeAuth struct{}

func (fakeAuth) write(w http.ResponseWriter, msg string) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(msg))
}

func (a fakeAuth) Register(w http.ResponseWriter, r *http.Request) { a.write(w, "register") }
func (a fakeAuth) Login(w http.ResponseWriter, r *http.Request)    { a.write(w, "login") }
func (a fakeAuth) Refresh(w http.ResponseWriter, r *http.Request)  { a.write(w, "refresh") }
func (a fakeAuth) Logout(w http.ResponseWriter, r *http.Request)   { a.write(w, "logout") }
func (a fakeAuth) Me(w http.ResponseWriter, r *http.Request)       { a.write(w, "me") }

func (a fakeAuth) InternalGetUser(w http.ResponseWriter, r *http.Request) {
	a.write(w, "internal_get_user")
}
func (a fakeAuth) InternalValidateToken(w http.ResponseWriter, r *http.Request) {
	a.write(w, "internal_validate")
}

type fakeOAuth struct{}

func (fakeOAuth) Start(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("oauth_start"))
}

func (fakeOAuth) Callback(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("oauth_callback"))
}

func noopMW(next http.Handler) http.Handler { return next }

func headerMW(key, val string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(key, val)
			next.ServeHTTP(w, r)
		})
	}
}

func baseDeps() Deps {
	return Deps{
		Health:      fakeHealth{},
		Auth:        fakeAuth{},
		OAuth:       fakeOAuth{},
		RequestIDMW: noopMW,
		AuthMW:      noopMW,
		CSRFMW:      noopMW,
		InternalMW:  noopMW,
	}
}

// ---------- tests ----------

func TestNew_MissingDeps(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Deps)
	}{
		{"nil health", func(d *Deps) { d.Health = nil }},
		{"nil auth", func(d *Deps) { d.Auth = nil }},
		{"nil oauth", func(d *Deps) { d.OAuth = nil }},
		{"nil request id mw", func(d *Deps) { d.RequestIDMW = nil }},
		{"nil auth mw", func(d *Deps) { d.AuthMW = nil }},
		{"nil csrf mw", func(d *Deps) { d.CSRFMW = nil }},
		{"nil internal mw", func(d *Deps) { d.InternalMW = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := baseDeps()
			tc.mutate(&deps)
			if _, err := New(deps); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNew_HealthRoutes(t *testing.T) {
	h, err := New(baseDeps())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	for path, want := range map[string]string{"/healthz": "ok", "/readyz": "ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
		if rr.Body.String() != want {
			t.Fatalf("%s: expected body %q, got %q", path, want, rr.Body.String())
		}
	}
}

func TestNew_DispatchTable(t *testing.T) {
	h, err := New(baseDeps())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	cases := []struct {
		method, path, want string
	}{
		{http.MethodPost, "/api/auth/v1/register", "register"},
		{http.MethodPost, "/api/auth/v1/login", "login"},
		{http.MethodPost, "/api/auth/v1/refresh", "refresh"},
		{http.MethodPost, "/api/auth/v1/logout", "logout"},
		{http.MethodGet, "/api/auth/v1/me", "me"},
		{http.MethodGet, "/api/auth/v1/oauth/google/start", "oauth_start"},
		{http.MethodGet, "/api/auth/v1/oauth/google/callback", "oauth_callback"},
		{http.MethodGet, "/internal/users/u-1", "internal_get_user"},
		{http.MethodPost, "/internal/token/validate", "internal_validate"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("%s %s: expected 200, got %d", tc.method, tc.path, rr.Code)
		}
		if rr.Body.String() != tc.want {
			t.Fatalf("%s %s: expected body %q, got %q", tc.method, tc.path, tc.want, rr.Body.String())
		}
	}
}

func TestNew_MeRoute_UsesAuthMW(t *testing.T) {
	deps := baseDeps()
	deps.AuthMW = headerMW("X-AuthMW", "1")

	h, err := New(deps)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/v1/me", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Header().Get("X-AuthMW") != "1" {
		t.Fatalf("expected AuthMW applied to /me")
	}

	// Login must stay outside the auth wall.
	req = httptest.NewRequest(http.MethodPost, "/api/auth/v1/login", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Header().Get("X-AuthMW") != "" {
		t.Fatalf("did not expect AuthMW applied to /login")
	}
}

func TestNew_CookieRoutes_UseCSRFMW(t *testing.T) {
	deps := baseDeps()
	deps.CSRFMW = headerMW("X-CSRF", "1")

	h, err := New(deps)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	for _, path := range []string{"/api/auth/v1/refresh", "/api/auth/v1/logout"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Header().Get("X-CSRF") != "1" {
			t.Fatalf("expected CSRF middleware applied to %s", path)
		}
	}
}

func TestNew_InternalRoutes_UseInternalMW(t *testing.T) {
	deps := baseDeps()
	deps.InternalMW = headerMW("X-Internal", "1")

	h, err := New(deps)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/internal/users/u-1", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Header().Get("X-Internal") != "1" {
		t.Fatalf("expected internal middleware applied")
	}
}

func TestNew_RateLimiters_Optional(t *testing.T) {
	deps := baseDeps()
	deps.LoginRL = headerMW("X-LoginRL", "1")

	h, err := New(deps)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/v1/login", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Header().Get("X-LoginRL") != "1" {
		t.Fatalf("expected login limiter applied")
	}

	// Register has no limiter wired; the route still works.
	req = httptest.NewRequest(http.MethodPost, "/api/auth/v1/register", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
