package postgres

import (
	"fmt"
	"time"

	"github.com/sisconis/identity-api/internal/domain/entity"
	"github.com/sisconis/identity-api/internal/domain/valueobject"
)

// userRecord is the persistence shape of a user row. UpdatedAt is nullable:
// a user that was never mutated has none.
type userRecord struct {
	ID                  string
	Name                string
	LastName            string
	Email               string
	Dni                 string
	PasswordHash        string
	IsPasswordTemporary bool
	CreatedAt           time.Time
	UpdatedAt           *time.Time
}

// toDomain rehydrates the aggregate. Stored email/dni are re-validated so a
// corrupted row surfaces as an integrity error instead of an invalid entity.
func (rec userRecord) toDomain() (*entity.User, error) {
	email, err := valueobject.NewEmail(rec.Email)
	if err != nil {
		return nil, fmt.Errorf("integrity: user %s has invalid email: %w", rec.ID, err)
	}
	dni, err := valueobject.NewDni(rec.Dni)
	if err != nil {
		return nil, fmt.Errorf("integrity: user %s has invalid dni: %w", rec.ID, err)
	}

	var updatedAt time.Time
	if rec.UpdatedAt != nil {
		updatedAt = *rec.UpdatedAt
	}
	return entity.Rehydrate(entity.RehydrateProps{
		ID:        rec.ID,
		Name:      rec.Name,
		LastName:  rec.LastName,
		Email:     email,
		Dni:       dni,
		Password:  valueobject.RehydratePassword(rec.PasswordHash, rec.IsPasswordTemporary),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: updatedAt,
	}), nil
}

func toRecord(u *entity.User) userRecord {
	rec := userRecord{
		ID:                  u.ID(),
		Name:                u.Name(),
		LastName:            u.LastName(),
		Email:               u.Email().Value(),
		Dni:                 u.Dni().Value(),
		PasswordHash:        u.Password().Hash(),
		IsPasswordTemporary: u.IsPasswordTemporary(),
		CreatedAt:           u.CreatedAt(),
	}
	if at, ok := u.UpdatedAt(); ok {
		rec.UpdatedAt = &at
	}
	return rec
}
