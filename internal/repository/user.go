package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront-labs/shop-admin-api/internal/domain/user"
)

const (
	insertUserSQL = `INSERT INTO users (email, password_hash, is_active)
		VALUES ($1, $2, $3) RETURNING user_id`

	listUsersSQL = `SELECT user_id, email, password_hash, is_active, created_at
		FROM users ORDER BY user_id`
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Insert persists a user and returns the generated user id.
func (r *UserRepository) Insert(ctx context.Context, u *user.User) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, insertUserSQL, u.Email, u.PasswordHash, u.IsActive).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting user %q: %w", u.Email, err)
	}
	return id, nil
}

// List returns all users ordered by id.
func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.pool.Query(ctx, listUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return pgx.CollectRows(rows, scanUser)
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	return u, err
}
