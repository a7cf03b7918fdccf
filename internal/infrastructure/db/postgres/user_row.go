package postgres

import (
	"database/sql"
	"strings"
	"time"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

type userRow struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  sql.NullString
	Provider      string
	ExternalID    sql.NullString
	FirstName     sql.NullString
	LastName      sql.NullString
	EmailVerified bool
	Enabled       bool
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Roles         sql.NullString // comma-joined role names
}

func toDomainUser(ur userRow) domain.User {
	u := domain.User{
		ID:            ur.ID,
		Username:      ur.Username,
		Email:         ur.Email,
		PasswordHash:  ur.PasswordHash.String,
		Provider:      domain.Provider(ur.Provider),
		ExternalID:    ur.ExternalID.String,
		FirstName:     ur.FirstName.String,
		LastName:      ur.LastName.String,
		EmailVerified: ur.EmailVerified,
		Enabled:       ur.Enabled,
		LastLoginAt:   ur.LastLoginAt,
		CreatedAt:     ur.CreatedAt,
		UpdatedAt:     ur.UpdatedAt,
	}
	if ur.Roles.Valid && ur.Roles.String != "" {
		u.Roles = strings.Split(ur.Roles.String, ",")
	}
	return u
}
