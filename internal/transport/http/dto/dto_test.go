package dto

import (
	"errors"
	"testing"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

func TestRegisterRequest_Validate(t *testing.T) {
	valid := func() RegisterRequest {
		return RegisterRequest{
			Username: "johndoe",
			Email:    "john@example.com",
			Password: "correct-horse-battery",
		}
	}

	t.Run("ok", func(t *testing.T) {
		r := valid()
		if err := r.Validate(); err != nil {
			t.Fatalf("expected nil, got: %v", err)
		}
	})

	t.Run("missing username", func(t *testing.T) {
		r := valid()
		r.Username = ""
		err := r.Validate()
		if err == nil || !domain.Is(err, "missing_field") {
			t.Fatalf("expected missing_field(username), got: %v", err)
		}
	})

	t.Run("missing email", func(t *testing.T) {
		r := valid()
		r.Email = ""
		err := r.Validate()
		if err == nil || !domain.Is(err, "missing_field") {
			t.Fatalf("expected missing_field(email), got: %v", err)
		}
	})

	t.Run("invalid email format", func(t *testing.T) {
		r := valid()
		r.Email = "not-an-email"
		err := r.Validate()
		if err == nil || !domain.Is(err, "invalid_field") {
			t.Fatalf("expected invalid_field(email), got: %v", err)
		}
	})

	t.Run("short password", func(t *testing.T) {
		r := valid()
		r.Password = "short"
		err := r.Validate()
		if err == nil || !domain.Is(err, "invalid_field") {
			t.Fatalf("expected invalid_field(password), got: %v", err)
		}
	})

	t.Run("short username", func(t *testing.T) {
		r := valid()
		r.Username = "jd"
		err := r.Validate()
		if err == nil || !domain.Is(err, "invalid_field") {
			t.Fatalf("expected invalid_field(username), got: %v", err)
		}
	})

	t.Run("normalizes email and trims username", func(t *testing.T) {
		r := valid()
		r.Username = "  johndoe "
		r.Email = "  John@Example.COM "
		if err := r.Validate(); err != nil {
			t.Fatalf("expected nil, got: %v", err)
		}
		if r.Email != "john@example.com" {
			t.Fatalf("expected normalized email, got %q", r.Email)
		}
		if r.Username != "johndoe" {
			t.Fatalf("expected trimmed username, got %q", r.Username)
		}
	})

	t.Run("empty role entry rejected", func(t *testing.T) {
		r := valid()
		r.Roles = []string{"developer", ""}
		err := r.Validate()
		if err == nil || !domain.Is(err, "missing_field") {
			t.Fatalf("expected missing_field for empty role, got: %v", err)
		}
	})

	t.Run("field name is json name", func(t *testing.T) {
		r := valid()
		r.FirstName = string(make([]byte, 101))
		err := r.Validate()
		var de *domain.Error
		if !errors.As(err, &de) {
			t.Fatalf("expected domain error, got: %v", err)
		}
		if de.Meta["field"] != "first_name" {
			t.Fatalf("expected field=first_name, got %+v", de.Meta)
		}
	})
}

func TestLoginRequest_Validate(t *testing.T) {
	t.Run("missing login", func(t *testing.T) {
		r := &LoginRequest{Login: "", Password: "x"}
		err := r.Validate()
		if err == nil || !domain.Is(err, "missing_field") {
			t.Fatalf("expected missing_field(login), got: %v", err)
		}
	})

	t.Run("missing password", func(t *testing.T) {
		r := &LoginRequest{Login: "johndoe", Password: ""}
		err := r.Validate()
		if err == nil || !domain.Is(err, "missing_field") {
			t.Fatalf("expected missing_field(password), got: %v", err)
		}
	})

	t.Run("accepts username or email", func(t *testing.T) {
		for _, login := range []string{"johndoe", "john@example.com"} {
			r := &LoginRequest{Login: login, Password: "secret"}
			if err := r.Validate(); err != nil {
				t.Fatalf("expected nil for login=%s, got: %v", login, err)
			}
		}
	})
}

func TestRefreshRequest_Validate(t *testing.T) {
	t.Run("always ok (cookie-based)", func(t *testing.T) {
		r := &RefreshRequest{}
		if err := r.Validate(); err != nil {
			t.Fatalf("expected nil, got: %v", err)
		}
	})
}

func TestNewUserView(t *testing.T) {
	u := domain.User{
		ID:            "u1",
		Username:      "johndoe",
		Email:         "john@example.com",
		Provider:      domain.ProviderGoogle,
		FirstName:     "John",
		LastName:      "Doe",
		EmailVerified: true,
		Enabled:       true,
		Roles:         []string{domain.RoleContractor},
	}

	v := NewUserView(u)
	if v.ID != "u1" || v.Username != "johndoe" || v.Provider != "GOOGLE" {
		t.Fatalf("unexpected view: %+v", v)
	}
	if len(v.Roles) != 1 || v.Roles[0] != domain.RoleContractor {
		t.Fatalf("unexpected roles: %+v", v.Roles)
	}
	if v.LastLoginAt != nil {
		t.Fatalf("expected nil last_login_at")
	}
}
