package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"yield-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, status, created_by, moderator, created_at,
       submitted_at, finished_at, location, person, result_value`

// BeginTransaction starts a new database transaction.
func (r *OrderRepository) BeginTransaction() (*sqlx.Tx, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// GetByID retrieves an order by its ID.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	err := r.db.GetContext(ctx, &order, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order by id: %w", err)
	}

	return &order, nil
}

// GetByIDForUpdate locks the order row for the lifetime of the transaction.
// Every mutating transition goes through this lock so that check-then-act on
// the status is race-free.
func (r *OrderRepository) GetByIDForUpdate(tx *sqlx.Tx, id int64) (*models.Order, error) {
	var order models.Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`

	err := tx.Get(&order, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock order row: %w", err)
	}

	return &order, nil
}

// FindDraftByUser returns the user's current draft order, or nil.
func (r *OrderRepository) FindDraftByUser(ctx context.Context, userID int64) (*models.Order, error) {
	var order models.Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE created_by = $1 AND status = 'draft'`

	err := r.db.GetContext(ctx, &order, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find draft order: %w", err)
	}

	return &order, nil
}

// FindOrCreateDraftTx returns the user's draft order, creating one if absent.
// The insert relies on the partial unique index on (created_by) WHERE
// status='draft': a concurrent first add hits the conflict and re-reads, so
// at most one draft per user ever exists.
func (r *OrderRepository) FindOrCreateDraftTx(tx *sqlx.Tx, userID int64) (*models.Order, error) {
	var order models.Order
	selectQuery := `SELECT ` + orderColumns + ` FROM orders
		WHERE created_by = $1 AND status = 'draft' FOR UPDATE`

	err := tx.Get(&order, selectQuery, userID)
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to find draft order: %w", err)
	}

	insertQuery := `
		INSERT INTO orders (status, created_by)
		VALUES ('draft', $1)
		ON CONFLICT (created_by) WHERE status = 'draft' DO NOTHING
		RETURNING ` + orderColumns

	err = tx.Get(&order, insertQuery, userID)
	if errors.Is(err, sql.ErrNoRows) {
		// Lost the race, the winner's row exists now.
		if err := tx.Get(&order, selectQuery, userID); err != nil {
			return nil, fmt.Errorf("failed to re-read draft order: %w", err)
		}
		return &order, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create draft order: %w", err)
	}

	return &order, nil
}

// List retrieves orders matching the filter, newest submissions first.
func (r *OrderRepository) List(ctx context.Context, filter models.OrderListFilter) ([]models.Order, error) {
	var orders []models.Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status != 'deleted'`

	args := []interface{}{}
	argCount := 1

	if filter.ExcludeDraft {
		query += ` AND status != 'draft'`
	}
	if filter.CreatedBy != nil {
		query += fmt.Sprintf(" AND created_by = $%d", argCount)
		args = append(args, *filter.CreatedBy)
		argCount++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, *filter.Status)
		argCount++
	}
	if filter.SubmittedFrom != nil {
		query += fmt.Sprintf(" AND submitted_at >= $%d", argCount)
		args = append(args, *filter.SubmittedFrom)
		argCount++
	}
	if filter.SubmittedTo != nil {
		query += fmt.Sprintf(" AND submitted_at <= $%d", argCount)
		args = append(args, *filter.SubmittedTo)
		argCount++
	}

	query += ` ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &orders, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// UpdateLocationPersonTx writes the categorical fields under the caller's
// row lock.
func (r *OrderRepository) UpdateLocationPersonTx(tx *sqlx.Tx, id int64, location, person *string) error {
	query := `UPDATE orders SET location = $1, person = $2 WHERE id = $3`

	if _, err := tx.Exec(query, location, person, id); err != nil {
		return fmt.Errorf("failed to update order fields: %w", err)
	}

	return nil
}

// MarkSubmittedTx moves the order to submitted and stamps submitted_at.
func (r *OrderRepository) MarkSubmittedTx(tx *sqlx.Tx, id int64, at time.Time) error {
	query := `UPDATE orders SET status = 'submitted', submitted_at = $1 WHERE id = $2`

	if _, err := tx.Exec(query, at, id); err != nil {
		return fmt.Errorf("failed to submit order: %w", err)
	}

	return nil
}

// SetModeratorTx records the moderator without changing the status. Used by
// the delegated finish path while the order waits for the compute callback.
func (r *OrderRepository) SetModeratorTx(tx *sqlx.Tx, id, moderatorID int64) error {
	query := `UPDATE orders SET moderator = $1 WHERE id = $2`

	if _, err := tx.Exec(query, moderatorID, id); err != nil {
		return fmt.Errorf("failed to set order moderator: %w", err)
	}

	return nil
}

// FinishTx completes an order in one write: status, moderator, finished_at
// and the result value.
func (r *OrderRepository) FinishTx(tx *sqlx.Tx, id, moderatorID int64, at time.Time, result decimal.Decimal) error {
	query := `
		UPDATE orders
		SET status = 'finished', moderator = $1, finished_at = $2, result_value = $3
		WHERE id = $4
	`

	if _, err := tx.Exec(query, moderatorID, at, result, id); err != nil {
		return fmt.Errorf("failed to finish order: %w", err)
	}

	return nil
}

// CompleteWithResultTx finalizes an order from the async callback: the
// moderator was already recorded when the computation was delegated.
func (r *OrderRepository) CompleteWithResultTx(tx *sqlx.Tx, id int64, at time.Time, result decimal.Decimal) error {
	query := `
		UPDATE orders
		SET status = 'finished', finished_at = $1, result_value = $2
		WHERE id = $3
	`

	if _, err := tx.Exec(query, at, result, id); err != nil {
		return fmt.Errorf("failed to complete order with result: %w", err)
	}

	return nil
}

// RejectTx moves the order to rejected with the moderator and finished_at.
func (r *OrderRepository) RejectTx(tx *sqlx.Tx, id, moderatorID int64, at time.Time) error {
	query := `
		UPDATE orders
		SET status = 'rejected', moderator = $1, finished_at = $2
		WHERE id = $3
	`

	if _, err := tx.Exec(query, moderatorID, at, id); err != nil {
		return fmt.Errorf("failed to reject order: %w", err)
	}

	return nil
}

// MarkDeletedTx flips the status only; rows and line items stay in place.
func (r *OrderRepository) MarkDeletedTx(tx *sqlx.Tx, id int64) error {
	query := `UPDATE orders SET status = 'deleted' WHERE id = $1`

	if _, err := tx.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return nil
}
