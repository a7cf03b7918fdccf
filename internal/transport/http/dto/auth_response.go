package dto

import (
	"time"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

// UserView is the standard user payload for identity-service responses.
type UserView struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	Provider      string     `json:"provider"`
	EmailVerified bool       `json:"email_verified"`
	Enabled       bool       `json:"enabled"`
	Roles         []string   `json:"roles"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

func NewUserView(u domain.User) UserView {
	return UserView{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Provider:      string(u.Provider),
		EmailVerified: u.EmailVerified,
		Enabled:       u.Enabled,
		Roles:         u.Roles,
		LastLoginAt:   u.LastLoginAt,
	}
}

// TokensView is the standard access token payload.
// (Refresh token is stored in an HttpOnly cookie, never returned in JSON.)
type TokensView struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // "Bearer"
	ExpiresIn   int64  `json:"expires_in"` // seconds
}

// AuthData is returned by register/login and the OAuth callback.
type AuthData struct {
	User   UserView   `json:"user"`
	Tokens TokensView `json:"tokens"`
}

// RefreshData is returned by refresh.
type RefreshData struct {
	Tokens TokensView `json:"tokens"`
	User   UserView   `json:"user"`
}

// MeData is returned by /me.
type MeData struct {
	User UserView `json:"user"`
}

// ValidateData is returned by the internal token introspection endpoint.
type ValidateData struct {
	Valid  bool     `json:"valid"`
	UserID string   `json:"user_id,omitempty"`
	Roles  []string `json:"roles,omitempty"`
}
