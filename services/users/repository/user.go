package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fletero/fletero/internal/pkg/errs"
	"github.com/fletero/fletero/internal/pkg/models"
)

const userColumns = `id, email, password_hash, role, first_name, last_name, phone,
		created_at, updated_at, deleted_at`

type UserRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

func NewUserRepository(cfg *models.Config, db *sqlx.DB) *UserRepo {
	return &UserRepo{
		cfg: cfg,
		db:  db,
	}
}

// CreateUser inserts a new user
func (r *UserRepo) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, first_name, last_name, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return errs.Store("create user", err)
}

// GetUserByID retrieves a user by ID
func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrUserNotFound
	}
	if err != nil {
		return nil, errs.Store("get user", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrUserNotFound
	}
	if err != nil {
		return nil, errs.Store("get user by email", err)
	}
	return &user, nil
}

// UpdateUser writes the mutable profile columns
func (r *UserRepo) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET first_name = $1, last_name = $2, phone = $3, updated_at = now()
		WHERE id = $4 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, user.FirstName, user.LastName, user.Phone, user.ID)
	if err != nil {
		return errs.Store("update user", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errs.Store("update user", err)
	}
	if rows == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

// ListUsersByRole retrieves all active users with the given role
func (r *UserRepo) ListUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 AND deleted_at IS NULL ORDER BY last_name, first_name`

	users := []*models.User{}
	if err := r.db.SelectContext(ctx, &users, query, role); err != nil {
		return nil, errs.Store("list users", err)
	}
	return users, nil
}
