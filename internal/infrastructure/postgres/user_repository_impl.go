package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sisconis/identity-api/internal/domain/entity"
	"github.com/sisconis/identity-api/internal/domain/repository"
)

const userColumns = `id, name, last_name, email, dni, password_hash, is_password_temporary, created_at, updated_at`

// UserRepository is the pgx adapter for the user persistence port. Rows are
// soft-deleted (deleted_at) and every query filters them out; the partial
// unique indexes on email and dni are the real uniqueness authority.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE email = $1 AND deleted_at IS NULL AND ($2 = '' OR id <> $2)
		)
	`, email, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by email: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) ExistsByDni(ctx context.Context, dni, excludeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE dni = $1 AND deleted_at IS NULL AND ($2 = '' OR id <> $2)
		)
	`, dni, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by dni: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	return scanUser(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1 AND deleted_at IS NULL
	`, email)
	return scanUser(row)
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	rec := toRecord(u)
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, last_name, email, dni, password_hash, is_password_temporary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.ID, rec.Name, rec.LastName, rec.Email, rec.Dni, rec.PasswordHash, rec.IsPasswordTemporary, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	rec := toRecord(u)
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, last_name = $2, email = $3, dni = $4,
		    password_hash = $5, is_password_temporary = $6, updated_at = $7
		WHERE id = $8 AND deleted_at IS NULL
	`, rec.Name, rec.LastName, rec.Email, rec.Dni, rec.PasswordHash, rec.IsPasswordTemporary, rec.UpdatedAt, rec.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("update user %s: no row", rec.ID)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL
	`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("soft delete user %s: no row", id)
	}
	return nil
}

func (r *UserRepository) Index(ctx context.Context, p repository.Pagination) ([]*entity.User, int64, error) {
	// OrderBy/Direction come from the normalized whitelist, safe to splice.
	where := `deleted_at IS NULL AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')`

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+where, p.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE %s
		ORDER BY %s %s
		LIMIT $2 OFFSET $3
	`, userColumns, where, p.OrderBy, p.Direction)

	rows, err := r.pool.Query(ctx, query, p.Search, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var rec userRecord
	err := row.Scan(&rec.ID, &rec.Name, &rec.LastName, &rec.Email, &rec.Dni,
		&rec.PasswordHash, &rec.IsPasswordTemporary, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return rec.toDomain()
}

var _ repository.UserRepository = (*UserRepository)(nil)
