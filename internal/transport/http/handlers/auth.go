package http_handlers

import (
	"net/http"
	"time"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/application/auth"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/infrastructure/security"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/logger"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/transport/http/dto"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/transport/http/middleware"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/transport/http/response"
)

type AuthHandler struct {
	svc           *auth.Service
	tokens        middleware.TokenValidator
	refreshTTL    time.Duration
	secureCookies bool
}

func NewAuthHandler(svc *auth.Service, tokens middleware.TokenValidator, refreshTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		svc:           svc,
		tokens:        tokens,
		refreshTTL:    refreshTTL,
		secureCookies: secureCookies,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Register(r.Context(), auth.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     req.Roles,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Str("username", res.User.Username).
		Msg("user_registered")

	security.SetRefreshToken(w, res.Tokens.RefreshToken, h.refreshTTL, h.secureCookies)

	response.Created(w, dto.AuthData{
		User:   dto.NewUserView(res.User),
		Tokens: tokensView(res.Tokens),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	security.SetRefreshToken(w, res.Tokens.RefreshToken, h.refreshTTL, h.secureCookies)

	response.OK(w, dto.AuthData{
		User:   dto.NewUserView(res.User),
		Tokens: tokensView(res.Tokens),
	})
}

// Refresh accepts the refresh token from the HttpOnly cookie first, then
// from an optional JSON body for non-browser clients.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshTok, err := security.ReadRefreshToken(r)
	if err != nil || refreshTok == "" {
		var req dto.RefreshRequest
		if derr := response.DecodeJSON(r, &req); derr == nil {
			refreshTok = req.RefreshToken
		}
	}
	if refreshTok == "" {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	toks, user, err := h.svc.Refresh(r.Context(), refreshTok)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	security.SetRefreshToken(w, toks.RefreshToken, h.refreshTTL, h.secureCookies)

	response.OK(w, dto.RefreshData{
		Tokens: tokensView(toks),
		User:   dto.NewUserView(user),
	})
}

// Logout clears the refresh cookie. Tokens are stateless, so there is
// nothing to revoke server-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	security.ClearRefreshToken(w, h.secureCookies)
	response.NoContent(w)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	response.OK(w, dto.MeData{User: dto.NewUserView(u)})
}

func tokensView(t auth.AuthTokens) dto.TokensView {
	return dto.TokensView{
		AccessToken: t.AccessToken,
		TokenType:   t.TokenType,
		ExpiresIn:   t.ExpiresIn,
	}
}
