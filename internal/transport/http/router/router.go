package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)

	// Service-to-service surface; must sit behind InternalMW.
	InternalGetUser(w http.ResponseWriter, r *http.Request)
	InternalValidateToken(w http.ResponseWriter, r *http.Request)
}

type OAuthHandler interface {
	Start(w http.ResponseWriter, r *http.Request)
	Callback(w http.ResponseWriter, r *http.Request)
}

type Middleware = func(http.Handler) http.Handler

type Deps struct {
	Health HealthHandler
	Auth   AuthHandler
	OAuth  OAuthHandler

	RequestIDMW Middleware
	AccessLogMW Middleware
	AuthMW      Middleware
	CSRFMW      Middleware
	InternalMW  Middleware

	// Per-route limiters; nil disables limiting for that route.
	LoginRL    Middleware
	RegisterRL Middleware
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.OAuth == nil {
		return nil, fmt.Errorf("nil OAuth handler")
	}
	if deps.RequestIDMW == nil {
		return nil, fmt.Errorf("nil RequestID middleware")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.CSRFMW == nil {
		return nil, fmt.Errorf("nil CSRF middleware")
	}
	if deps.InternalMW == nil {
		return nil, fmt.Errorf("nil Internal middleware")
	}

	r := chi.NewRouter()
	r.Use(deps.RequestIDMW)
	if deps.AccessLogMW != nil {
		r.Use(deps.AccessLogMW)
	}

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)

	r.Route("/api/auth/v1", func(r chi.Router) {
		r.With(maybe(deps.RegisterRL)).Post("/register", deps.Auth.Register)
		r.With(maybe(deps.LoginRL)).Post("/login", deps.Auth.Login)

		// Cookie-bearing endpoints need the origin check.
		r.With(deps.CSRFMW).Post("/refresh", deps.Auth.Refresh)
		r.With(deps.CSRFMW).Post("/logout", deps.Auth.Logout)

		r.With(deps.AuthMW).Get("/me", deps.Auth.Me)

		r.Route("/oauth/{provider}", func(r chi.Router) {
			r.Get("/start", deps.OAuth.Start)
			r.Get("/callback", deps.OAuth.Callback)
		})
	})

	r.Route("/internal", func(r chi.Router) {
		r.Use(deps.InternalMW)
		r.Get("/users/{id}", deps.Auth.InternalGetUser)
		r.Post("/token/validate", deps.Auth.InternalValidateToken)
	})

	return r, nil
}

func maybe(mw Middleware) Middleware {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}
