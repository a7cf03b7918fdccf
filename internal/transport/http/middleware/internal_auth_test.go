package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func runInternalAuth(secret, header string) *httptest.ResponseRecorder {
	mw := InternalAuth(secret)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/internal/users/u-1", nil)
	if header != "" {
		req.Header.Set("X-Internal-Secret", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestInternalAuth(t *testing.T) {
	const secret = "service-mesh-secret"

	t.Run("missing header", func(t *testing.T) {
		rec := runInternalAuth(secret, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		rec := runInternalAuth(secret, "guessed-secret")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("correct secret", func(t *testing.T) {
		rec := runInternalAuth(secret, secret)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if rec.Body.String() != "ok" {
			t.Errorf("expected body ok, got %q", rec.Body.String())
		}
	})
}

// An empty secret must never admit anyone.
func TestInternalAuth_EmptySecretFailsClosed(t *testing.T) {
	rec := runInternalAuth("", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 when secret is empty, got %d", rec.Code)
	}

	rec = runInternalAuth("", "anything")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 when secret is empty, got %d", rec.Code)
	}
}
