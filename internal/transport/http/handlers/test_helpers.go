package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/transport/http/middleware"
)

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadJSON decodes JSON from r into out, unwrapping the {"data": ...}
// envelope when present.
func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	wrapped := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Data) > 0 {
		if err := json.Unmarshal(wrapped.Data, out); err != nil {
			t.Fatalf("decode wrapped.data failed; body=%s err=%v", string(raw), err)
		}
		return
	}

	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed; body=%s", string(raw))
	}
}

// readCookie finds cookie by name from response headers.
func readCookie(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// withUserCtx injects an authenticated user into the request context.
func withUserCtx(req *http.Request, u domain.User) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), u))
}

// withURLParam injects a chi URL param (e.g. /users/{id}) into request context.
func withURLParam(req *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

// errCode extracts the error.code field from an error response body.
func errCode(t *testing.T, r io.Reader) string {
	t.Helper()

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode error body failed; body=%s", string(raw))
	}
	return body.Error.Code
}
