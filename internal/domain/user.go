package domain

import (
	"strings"
	"time"
)

// User is an account identity. Exactly one of two shapes exists:
// local accounts carry a password hash and Provider == ProviderLocal;
// provider accounts carry an ExternalID and no hash.
type User struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string
	Provider      Provider
	ExternalID    string
	FirstName     string
	LastName      string
	EmailVerified bool
	Enabled       bool
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Roles         []string
}

// Principal is the capability view handed to authorization checks.
type Principal interface {
	PrincipalID() string
	Authorities() []string
	IsEnabled() bool
}

func (u *User) PrincipalID() string { return u.ID }

func (u *User) Authorities() []string { return u.Roles }

func (u *User) IsEnabled() bool { return u.Enabled }

// FullName joins the name parts, tolerating either being empty.
func (u *User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// SetFullName splits a display name on the first whitespace run:
// head becomes the first name, the remainder the last name.
func (u *User) SetFullName(name string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		u.FirstName, u.LastName = "", ""
	case 1:
		u.FirstName, u.LastName = fields[0], ""
	default:
		u.FirstName = fields[0]
		u.LastName = strings.Join(fields[1:], " ")
	}
}

// HasRole reports whether the user carries the canonical role name.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
