package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"yield-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type MonthRepository struct {
	db *sqlx.DB
}

func NewMonthRepository(db *sqlx.DB) *MonthRepository {
	return &MonthRepository{db: db}
}

const monthColumns = `id, name, description, main_value, image_key, base_yield,
       ideal_temp, ideal_precip, temperature, precipitation, status`

// ListActive retrieves active months, optionally filtered by a
// case-insensitive name prefix.
func (r *MonthRepository) ListActive(ctx context.Context, namePrefix string) ([]models.Month, error) {
	var months []models.Month
	query := `SELECT ` + monthColumns + ` FROM months WHERE status = TRUE`

	args := []interface{}{}
	if namePrefix != "" {
		query += ` AND name ILIKE $1 || '%'`
		args = append(args, namePrefix)
	}
	query += ` ORDER BY id`

	err := r.db.SelectContext(ctx, &months, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list months: %w", err)
	}

	return months, nil
}

// GetByID retrieves a month regardless of its active flag.
func (r *MonthRepository) GetByID(ctx context.Context, id int64) (*models.Month, error) {
	var month models.Month
	query := `SELECT ` + monthColumns + ` FROM months WHERE id = $1`

	err := r.db.GetContext(ctx, &month, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("month %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get month by id: %w", err)
	}

	return &month, nil
}

// GetActiveByID retrieves a month only if it is active.
func (r *MonthRepository) GetActiveByID(ctx context.Context, id int64) (*models.Month, error) {
	var month models.Month
	query := `SELECT ` + monthColumns + ` FROM months WHERE id = $1 AND status = TRUE`

	err := r.db.GetContext(ctx, &month, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("month %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get month by id: %w", err)
	}

	return &month, nil
}

// Create inserts a month and returns it with its assigned id.
func (r *MonthRepository) Create(ctx context.Context, m *models.Month) error {
	query := `
		INSERT INTO months (name, description, main_value, base_yield, ideal_temp,
		                    ideal_precip, temperature, precipitation, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		m.Name, m.Description, m.MainValue, m.BaseYield, m.IdealTemp,
		m.IdealPrecip, m.Temperature, m.Precipitation,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to create month: %w", err)
	}
	m.Status = true

	return nil
}

// Update writes all mutable fields of a month.
func (r *MonthRepository) Update(ctx context.Context, m *models.Month) error {
	query := `
		UPDATE months
		SET name = $1, description = $2, main_value = $3, base_yield = $4,
		    ideal_temp = $5, ideal_precip = $6, temperature = $7, precipitation = $8
		WHERE id = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		m.Name, m.Description, m.MainValue, m.BaseYield, m.IdealTemp,
		m.IdealPrecip, m.Temperature, m.Precipitation, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update month: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("month %d: %w", m.ID, models.ErrNotFound)
	}

	return nil
}

// SetImageKey stores (or clears, with nil) the image object key.
func (r *MonthRepository) SetImageKey(ctx context.Context, id int64, key *string) error {
	query := `UPDATE months SET image_key = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, key, id)
	if err != nil {
		return fmt.Errorf("failed to set month image key: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("month %d: %w", id, models.ErrNotFound)
	}

	return nil
}

// Deactivate soft-deletes a month: clears the image key and flips the status
// flag. The row stays, historical indicators keep referencing it.
func (r *MonthRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE months SET status = FALSE, image_key = NULL WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate month: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("month %d: %w", id, models.ErrNotFound)
	}

	return nil
}
