package dto

import (
	"strings"
)

// -------- Core auth --------

type RegisterRequest struct {
	Username  string   `json:"username" validate:"required,min=3,max=50"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required,min=12,max=128"`
	FirstName string   `json:"first_name" validate:"omitempty,max=100"`
	LastName  string   `json:"last_name" validate:"omitempty,max=100"`
	Roles     []string `json:"roles" validate:"omitempty,max=8,dive,required"`
}

func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	return checkStruct(r)
}

// LoginRequest accepts a username or an email in the login field.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Login = strings.TrimSpace(r.Login)
	return checkStruct(r)
}

// RefreshRequest is optional: the refresh token normally travels in an
// HttpOnly cookie, but a JSON body is accepted for non-browser clients.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

func (r *RefreshRequest) Validate() error {
	return nil
}

type LogoutRequest struct{}
