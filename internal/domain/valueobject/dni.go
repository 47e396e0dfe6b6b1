package valueobject

import (
	"regexp"
	"strings"

	"github.com/sisconis/identity-api/internal/apperror"
)

var dniRegex = regexp.MustCompile(`^\d{8}$`)

// Dni is a national identity document number: exactly 8 ASCII digits.
type Dni struct {
	value string
}

// NewDni trims raw input and validates it against ^\d{8}$.
func NewDni(raw string) (Dni, error) {
	value := strings.TrimSpace(raw)
	if !dniRegex.MatchString(value) {
		return Dni{}, &apperror.InvalidDniError{Value: value}
	}
	return Dni{value: value}, nil
}

func (d Dni) Value() string  { return d.value }
func (d Dni) String() string { return d.value }

func (d Dni) Equals(other Dni) bool { return d.value == other.value }
