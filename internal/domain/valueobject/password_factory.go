package valueobject

import (
	"context"

	"github.com/sisconis/identity-api/internal/apperror"
)

// The four construction paths for Password live here so that callers never
// reach for a hasher directly and the permanent/temporary classification
// policy stays in one place.

// NewPermanentPassword validates the raw candidate and hashes it. The hasher
// is never invoked for input that fails the strength rules.
func NewPermanentPassword(ctx context.Context, raw string, hasher PasswordHasher) (Password, error) {
	if !passwordIsStrong(raw) {
		return Password{}, &apperror.InvalidPasswordError{}
	}
	hash, err := hasher.Hash(ctx, raw)
	if err != nil {
		return Password{}, err
	}
	return Password{hash: hash, temporary: false}, nil
}

// TemporaryPasswordFromDni derives the temporary variant by hashing the DNI
// value. No validation: a Dni is well-formed by construction.
func TemporaryPasswordFromDni(ctx context.Context, dni Dni, hasher PasswordHasher) (Password, error) {
	hash, err := hasher.Hash(ctx, dni.Value())
	if err != nil {
		return Password{}, err
	}
	return Password{hash: hash, temporary: true}, nil
}

// RehydratePassword wraps an already-hashed value from trusted storage,
// restoring the variant recorded at persistence time. Total, no validation.
func RehydratePassword(hash string, temporary bool) Password {
	return Password{hash: hash, temporary: temporary}
}
