package entity

import (
	"context"
	"time"

	"github.com/sisconis/identity-api/internal/domain/valueobject"
)

// IDGenerator is the port for producing entity identifiers. Generated ids
// are opaque to clients; ULIDs are used in production for creation-order
// sortability.
type IDGenerator interface {
	NewID() string
}

// User is the aggregate root of the identity domain. All fields are
// unexported: state changes only through behavior methods, which keep the
// invariants (well-formed email/dni, single password variant, updatedAt
// refreshed on every successful mutation).
type User struct {
	id        string
	name      string
	lastName  string
	email     valueobject.Email
	dni       valueobject.Dni
	password  valueobject.Password
	createdAt time.Time
	updatedAt time.Time // zero value means never updated
}

// CreateUserProps carries the plain data for a fresh user.
type CreateUserProps struct {
	Name     string
	LastName string
	Email    string
	Dni      string
}

// ExistingUserProps carries stored data for FromExisting, including the
// persisted password classification.
type ExistingUserProps struct {
	Name                string
	LastName            string
	Email               string
	Dni                 string
	PasswordHash        string
	IsPasswordTemporary bool
}

// RehydrateProps is the trusted input for Rehydrate, produced only by the
// persistence mapper.
type RehydrateProps struct {
	ID        string
	Name      string
	LastName  string
	Email     valueobject.Email
	Dni       valueobject.Dni
	Password  valueobject.Password
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser builds a fresh user: email and dni are validated first (the
// hasher is untouched when either fails), the id is generated once, and the
// initial password is a temporary one derived from the dni.
func NewUser(ctx context.Context, props CreateUserProps, idGen IDGenerator, hasher valueobject.PasswordHasher) (*User, error) {
	email, err := valueobject.NewEmail(props.Email)
	if err != nil {
		return nil, err
	}
	dni, err := valueobject.NewDni(props.Dni)
	if err != nil {
		return nil, err
	}
	password, err := valueobject.TemporaryPasswordFromDni(ctx, dni, hasher)
	if err != nil {
		return nil, err
	}
	return &User{
		id:        idGen.NewID(),
		name:      props.Name,
		lastName:  props.LastName,
		email:     email,
		dni:       dni,
		password:  password,
		createdAt: time.Now().UTC(),
	}, nil
}

// FromExisting reconstructs a user from stored primitives, re-validating
// email and dni as a defense against corrupted storage. The password variant
// is restored from the persisted flag. updatedAt is stamped now.
func FromExisting(id string, props ExistingUserProps, createdAt time.Time) (*User, error) {
	email, err := valueobject.NewEmail(props.Email)
	if err != nil {
		return nil, err
	}
	dni, err := valueobject.NewDni(props.Dni)
	if err != nil {
		return nil, err
	}
	return &User{
		id:        id,
		name:      props.Name,
		lastName:  props.LastName,
		email:     email,
		dni:       dni,
		password:  valueobject.RehydratePassword(props.PasswordHash, props.IsPasswordTemporary),
		createdAt: createdAt,
		updatedAt: time.Now().UTC(),
	}, nil
}

// Rehydrate is the total constructor bypass for already-validated persisted
// data. Only the persistence mapper should call it.
func Rehydrate(props RehydrateProps) *User {
	return &User{
		id:        props.ID,
		name:      props.Name,
		lastName:  props.LastName,
		email:     props.Email,
		dni:       props.Dni,
		password:  props.Password,
		createdAt: props.CreatedAt,
		updatedAt: props.UpdatedAt,
	}
}

func (u *User) ID() string                     { return u.id }
func (u *User) Name() string                   { return u.name }
func (u *User) LastName() string               { return u.lastName }
func (u *User) Email() valueobject.Email       { return u.email }
func (u *User) Dni() valueobject.Dni           { return u.dni }
func (u *User) Password() valueobject.Password { return u.password }
func (u *User) CreatedAt() time.Time           { return u.createdAt }

// UpdatedAt returns the last mutation time and whether one ever happened.
func (u *User) UpdatedAt() (time.Time, bool) {
	return u.updatedAt, !u.updatedAt.IsZero()
}

func (u *User) touch() { u.updatedAt = time.Now().UTC() }

// ChangePassword validates and hashes the new raw password, installing a
// permanent variant (a temporary one collapses to permanent). On validation
// failure nothing changes, including updatedAt.
func (u *User) ChangePassword(ctx context.Context, raw string, hasher valueobject.PasswordHasher) error {
	password, err := valueobject.NewPermanentPassword(ctx, raw, hasher)
	if err != nil {
		return err
	}
	u.password = password
	u.touch()
	return nil
}

// ResetToTemporaryPassword unconditionally replaces the password with a
// temporary variant derived from the current dni.
func (u *User) ResetToTemporaryPassword(ctx context.Context, hasher valueobject.PasswordHasher) error {
	password, err := valueobject.TemporaryPasswordFromDni(ctx, u.dni, hasher)
	if err != nil {
		return err
	}
	u.password = password
	u.touch()
	return nil
}

// UpdateDni validates and replaces the dni, bumping updatedAt on success only.
func (u *User) UpdateDni(raw string) error {
	dni, err := valueobject.NewDni(raw)
	if err != nil {
		return err
	}
	u.dni = dni
	u.touch()
	return nil
}

// UpdateEmail validates and replaces the email, bumping updatedAt on success only.
func (u *User) UpdateEmail(raw string) error {
	email, err := valueobject.NewEmail(raw)
	if err != nil {
		return err
	}
	u.email = email
	u.touch()
	return nil
}

// UpdateProfile partially updates the non-identity fields. Empty strings
// mean "not provided"; updatedAt moves only when at least one field does.
func (u *User) UpdateProfile(name, lastName string) {
	changed := false
	if name != "" {
		u.name = name
		changed = true
	}
	if lastName != "" {
		u.lastName = lastName
		changed = true
	}
	if changed {
		u.touch()
	}
}

// IsPasswordTemporary reports which variant is currently held.
func (u *User) IsPasswordTemporary() bool { return u.password.IsTemporary() }

// VerifyPassword delegates to the held password variant's Matches.
func (u *User) VerifyPassword(ctx context.Context, plain string, hasher valueobject.PasswordHasher) bool {
	return u.password.Matches(ctx, plain, hasher)
}
