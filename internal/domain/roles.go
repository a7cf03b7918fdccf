package domain

import "strings"

// Canonical role names. The table is fixed at compile time; defaults
// for each signup path are configurable but must name one of these.
const (
	RoleAdmin      = "ROLE_ADMIN"
	RoleManager    = "ROLE_MANAGER"
	RoleDeveloper  = "ROLE_DEVELOPER"
	RoleContractor = "ROLE_CONTRACTOR"
)

const rolePrefix = "ROLE_"

// RoleTable resolves requested role names and hands out signup defaults.
// Built once at startup and never mutated afterwards, so it is safe to
// share across goroutines.
type RoleTable struct {
	known        map[string]string // canonical name -> description
	localDefault string
	oauthDefault string
}

// NewRoleTable validates the two defaults against the fixed table.
func NewRoleTable(localDefault, oauthDefault string) (*RoleTable, error) {
	t := &RoleTable{
		known: map[string]string{
			RoleAdmin:      "full administrative access",
			RoleManager:    "project and team management",
			RoleDeveloper:  "standard developer access",
			RoleContractor: "limited external contributor access",
		},
	}
	local, err := t.Resolve(localDefault)
	if err != nil {
		return nil, err
	}
	oauth, err := t.Resolve(oauthDefault)
	if err != nil {
		return nil, err
	}
	t.localDefault = local
	t.oauthDefault = oauth
	return t, nil
}

// Resolve normalizes a requested name ("developer" -> "ROLE_DEVELOPER")
// and validates it against the table.
func (t *RoleTable) Resolve(name string) (string, error) {
	canonical := Canonicalize(name)
	if canonical == "" {
		return "", ErrUnknownRole(name)
	}
	if _, ok := t.known[canonical]; !ok {
		return "", ErrUnknownRole(name)
	}
	return canonical, nil
}

// LocalDefault is the role granted on local password signup.
func (t *RoleTable) LocalDefault() string { return t.localDefault }

// OAuthDefault is the role granted when an account is provisioned
// through an external provider. Less privileged than LocalDefault.
func (t *RoleTable) OAuthDefault() string { return t.oauthDefault }

// Description returns the human description for a canonical role name.
func (t *RoleTable) Description(canonical string) string {
	return t.known[canonical]
}

// Canonicalize maps a user-supplied role name onto the ROLE_ form.
// Empty input stays empty; an already-canonical name passes through.
func Canonicalize(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return ""
	}
	if !strings.HasPrefix(n, rolePrefix) {
		n = rolePrefix + n
	}
	return n
}
