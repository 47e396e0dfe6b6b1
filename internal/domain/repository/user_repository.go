package repository

import (
	"context"

	"github.com/sisconis/identity-api/internal/domain/entity"
)

// Sort columns accepted by Index. Anything else falls back to OrderByCreatedAt.
const (
	OrderByCreatedAt = "created_at"
	OrderByName      = "name"

	DirectionAsc  = "asc"
	DirectionDesc = "desc"

	DefaultPage  = 1
	DefaultLimit = 10
)

// Pagination carries the listing contract: page/limit with offset
// semantics, a sort column and direction, and an optional search term
// matched against name, last name and email.
type Pagination struct {
	Page      int
	Limit     int
	OrderBy   string
	Direction string
	Search    string
}

// Normalized returns a copy with defaults applied: {1, 10, created_at, desc, ""}.
func (p Pagination) Normalized() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.OrderBy != OrderByCreatedAt && p.OrderBy != OrderByName {
		p.OrderBy = OrderByCreatedAt
	}
	if p.Direction != DirectionAsc && p.Direction != DirectionDesc {
		p.Direction = DirectionDesc
	}
	return p
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// UserRepository is the persistence port consumed by the use cases. The
// adapter owns the storage representation; soft deletion is its concern and
// is signaled only by entity id.
//
// FindByID and FindByEmail return (nil, nil) on a miss; translating that
// into UserNotFoundError is use-case business, not storage business.
// Existence checks take an excludeID so a user changing their own email or
// dni does not collide with themselves; the partial unique indexes on the
// users table remain the actual authority for the check-then-insert race.
type UserRepository interface {
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	ExistsByDni(ctx context.Context, dni, excludeID string) (bool, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	Index(ctx context.Context, p Pagination) ([]*entity.User, int64, error)
}
