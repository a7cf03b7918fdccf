package security

import (
	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes passwords with bcrypt at a fixed cost.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domain.ErrHashFailed(err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
