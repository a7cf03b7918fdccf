package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/config"
)

func devConfig() *config.Config {
	return &config.Config{
		Env:             "dev",
		HTTPAddr:        ":0",
		JWTSecret:       "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		JWTIssuer:       "identity-service",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		InternalSecret:  "dev-internal-secret",

		HTTPReadTimeout:  10 * time.Second,
		HTTPWriteTimeout: 30 * time.Second,
		HTTPIdleTimeout:  time.Minute,

		OAuthStateTTL: 10 * time.Minute,
	}
}

// Dev mode must come up with no backing services at all: in-memory
// user store, no redis, no broker.
func TestNewServer_DevModeWithoutBackingServices(t *testing.T) {
	srv, cleanup, err := newServer(devConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()

	if srv.Handler == nil {
		t.Fatal("expected a wired handler")
	}
	if srv.ReadTimeout != 10*time.Second {
		t.Fatalf("unexpected read timeout: %v", srv.ReadTimeout)
	}
}

func TestNewServer_HealthzServes(t *testing.T) {
	srv, cleanup, err := newServer(devConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

// Seeded dev accounts must be able to log in through the fully wired
// handler stack.
func TestNewServer_SeededLogin(t *testing.T) {
	srv, cleanup, err := newServer(devConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/v1/login",
		strings.NewReader(`{"login":"developer","password":"DeveloperPassword123!"}`))
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

// The internal surface rejects callers without the shared secret.
func TestNewServer_InternalSurfaceGuarded(t *testing.T) {
	srv, cleanup, err := newServer(devConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/internal/token/validate",
		strings.NewReader(`{"token":"x"}`))
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/internal/token/validate",
		strings.NewReader(`{"token":"x"}`))
	req.Header.Set("X-Internal-Secret", "dev-internal-secret")
	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}
