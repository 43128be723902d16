package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"yield-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, password_hash, email, first_name, last_name,
       is_manager, is_admin, is_guest, created_at`

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	err := r.db.GetContext(ctx, &user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", username, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

// Create inserts a registered user and fills the assigned id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash, email, first_name, last_name,
		                   is_manager, is_admin, is_guest)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Email, user.FirstName,
		user.LastName, user.IsManager, user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// CreateGuest mints an anonymous cart identity. Each anonymous session gets
// its own row, there is no shared placeholder user.
func (r *UserRepository) CreateGuest(ctx context.Context) (*models.User, error) {
	var user models.User
	query := `
		INSERT INTO users (username, is_guest)
		VALUES ($1, TRUE)
		RETURNING ` + userColumns

	username := "guest-" + uuid.NewString()[:8]
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, fmt.Errorf("failed to create guest user: %w", err)
	}

	return &user, nil
}

// UpdateProfile writes the mutable profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET email = $1, first_name = $2, last_name = $3
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Email, user.FirstName, user.LastName, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %d: %w", user.ID, models.ErrNotFound)
	}

	return nil
}
