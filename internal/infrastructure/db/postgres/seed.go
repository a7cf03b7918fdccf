package postgres

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederStore interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// SeedUsers provisions the dev accounts. Restart safe: duplicate
// conflicts are ignored.
func SeedUsers(ctx context.Context, store SeederStore, hasher SeederHasher) {
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
			ID:            uuid.NewString(),
			Username:      s.Username,
			Email:         s.Email,
			PasswordHash:  hash,
			Provider:      domain.ProviderLocal,
			EmailVerified: true,
			Enabled:       true,
			Roles:         []string{s.Role},
		}

		if _, err := store.Create(ctx, u); err != nil {
			// ignore duplicates (restart safe)
			continue
		}
	}

	log.Println("[seed] postgres users seeded")
}
