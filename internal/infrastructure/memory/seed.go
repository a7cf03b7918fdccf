package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

// Hasher is the minimal surface we need for seeding.
type Hasher interface {
	Hash(password string) (string, error)
}

// SeedUsers creates initial users for local development (in-memory only).
// Safe to call multiple times (duplicates ignored).
func SeedUsers(ctx context.Context, users *UserStore, hasher Hasher) {
	type seedUser struct {
		Username string
		Email    string
		Role     string
		Pass     string
	}

	seeds := []seedUser{
		{Username: "admin", Email: "admin@example.com", Role: domain.RoleAdmin, Pass: "AdminPassword123!"},
		{Username: "manager", Email: "manager@example.com", Role: domain.RoleManager, Pass: "ManagerPassword123!"},
		{Username: "developer", Email: "developer@example.com", Role: domain.RoleDeveloper, Pass: "DeveloperPassword123!"},
	}

	for _, s := range seeds {
		hash, err := hasher.Hash(s.Pass)
		if err != nil {
			log.Printf("[seed] hash failed (%s): %v", s.Email, err)
			continue
		}

		u := domain.User{
			ID:            newID(),
			Username:      s.Username,
			Email:         s.Email,
			PasswordHash:  hash,
			Provider:      domain.ProviderLocal,
			EmailVerified: true,
			Enabled:       true,
			Roles:         []string{s.Role},
		}

		if _, err := users.Create(ctx, u); err != nil {
			// ignore duplicates / restart
			continue
		}
	}

	log.Println("[seed] in-memory users seeded")
}

func newID() string {
	// 16 bytes => 32 hex chars; good enough for in-memory dev IDs
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
