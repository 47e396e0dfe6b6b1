package security

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/sisconis/identity-api/internal/domain/valueobject"
)

// BcryptHasher implements the password hasher port with bcrypt.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(_ context.Context, plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Compare(_ context.Context, plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

var _ valueobject.PasswordHasher = (*BcryptHasher)(nil)
