package valueobject

import (
	"regexp"
	"strings"

	"github.com/sisconis/identity-api/internal/apperror"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email wraps a normalized (trimmed, lowercased) address. The zero value is
// invalid; obtain instances through NewEmail only.
type Email struct {
	value string
}

// NewEmail normalizes raw input and validates the local@domain.tld shape.
func NewEmail(raw string) (Email, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if !emailRegex.MatchString(value) {
		return Email{}, &apperror.InvalidEmailError{Value: value}
	}
	return Email{value: value}, nil
}

func (e Email) Value() string  { return e.value }
func (e Email) String() string { return e.value }

// Equals compares by normalized value.
func (e Email) Equals(other Email) bool { return e.value == other.value }
