package valueobject

import (
	"context"
	"unicode"
)

// PasswordHasher is the port for one-way password hashing. Hashing takes a
// context so implementations can offload the CPU-bound work.
type PasswordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	Compare(ctx context.Context, plain, hash string) bool
}

// Password is a sum type over the two password variants. The temporary tag
// is part of the value itself: whether a password forces a change is carried
// by the variant, never re-derived from comparing hashes.
type Password struct {
	hash      string
	temporary bool
}

func (p Password) Hash() string      { return p.hash }
func (p Password) IsTemporary() bool { return p.temporary }

// Matches reports whether plain corresponds to the stored hash. Identical
// behavior for both variants.
func (p Password) Matches(ctx context.Context, plain string, hasher PasswordHasher) bool {
	return hasher.Compare(ctx, plain, p.hash)
}

// passwordIsStrong enforces the raw-candidate rules: at least 8 characters
// with at least one letter and one digit.
func passwordIsStrong(raw string) bool {
	if len(raw) < 8 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
