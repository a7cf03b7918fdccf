package http_handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/application/auth"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/transport/http/dto"
	"github.com/buildmaster/projecttracker/services/identity-service/internal/transport/http/response"
)

// InternalGetUser returns full user details (including email) for other
// services. Must stay behind the internal-secret middleware; it exposes
// PII.
func (h *AuthHandler) InternalGetUser(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")
	if strings.TrimSpace(targetID) == "" {
		response.WriteError(w, r, domain.ErrMissingField("id"))
		return
	}

	u, err := h.svc.GetUserByID(r.Context(), targetID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, map[string]any{"user": dto.NewUserView(u)})
}

type validateTokenRequest struct {
	Token string `json:"token"`
}

// InternalValidateToken lets other services introspect an access token
// without sharing the signing key. Invalid tokens answer 200 with
// valid=false so callers can distinguish "bad token" from transport
// failures.
func (h *AuthHandler) InternalValidateToken(w http.ResponseWriter, r *http.Request) {
	var req validateTokenRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if req.Token == "" {
		response.WriteError(w, r, domain.ErrMissingField("token"))
		return
	}

	claims, err := h.tokens.Validate(req.Token)
	if err != nil || claims.Kind != auth.TokenKindAccess {
		response.OK(w, dto.ValidateData{Valid: false})
		return
	}

	u, err := h.svc.GetUserByLogin(r.Context(), claims.Subject)
	if err != nil || !u.Enabled {
		response.OK(w, dto.ValidateData{Valid: false})
		return
	}

	response.OK(w, dto.ValidateData{
		Valid:  true,
		UserID: u.ID,
		Roles:  u.Roles,
	})
}
