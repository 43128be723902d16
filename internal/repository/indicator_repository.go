package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"yield-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type IndicatorRepository struct {
	db *sqlx.DB
}

func NewIndicatorRepository(db *sqlx.DB) *IndicatorRepository {
	return &IndicatorRepository{db: db}
}

// AddTx inserts a zero-valued indicator for (order, month). Adding the same
// month twice is a no-op against the existing row.
func (r *IndicatorRepository) AddTx(tx *sqlx.Tx, orderID, monthID int64) error {
	query := `
		INSERT INTO indicators (order_id, month_id, avg_temp, sum_precipitation, comment)
		VALUES ($1, $2, 0, 0, '')
		ON CONFLICT (order_id, month_id) DO NOTHING
	`

	if _, err := tx.Exec(query, orderID, monthID); err != nil {
		return fmt.Errorf("failed to add indicator: %w", err)
	}

	return nil
}

// CountByOrder returns the number of line items on an order.
func (r *IndicatorRepository) CountByOrder(ctx context.Context, orderID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM indicators WHERE order_id = $1`

	if err := r.db.GetContext(ctx, &count, query, orderID); err != nil {
		return 0, fmt.Errorf("failed to count indicators: %w", err)
	}

	return count, nil
}

// CountByOrderTx is CountByOrder inside the caller's transaction.
func (r *IndicatorRepository) CountByOrderTx(tx *sqlx.Tx, orderID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM indicators WHERE order_id = $1`

	if err := tx.Get(&count, query, orderID); err != nil {
		return 0, fmt.Errorf("failed to count indicators: %w", err)
	}

	return count, nil
}

const indicatorJoinQuery = `
	SELECT i.id, i.order_id, i.month_id, i.avg_temp, i.sum_precipitation, i.comment,
	       m.name AS month_name, m.base_yield, m.ideal_temp, m.ideal_precip
	FROM indicators i
	JOIN months m ON m.id = i.month_id
	WHERE i.order_id = $1
	ORDER BY i.month_id
`

// ListWithMonthByOrder retrieves an order's line items joined with their
// months' reference conditions.
func (r *IndicatorRepository) ListWithMonthByOrder(ctx context.Context, orderID int64) ([]models.IndicatorWithMonth, error) {
	var items []models.IndicatorWithMonth

	if err := r.db.SelectContext(ctx, &items, indicatorJoinQuery, orderID); err != nil {
		return nil, fmt.Errorf("failed to list indicators: %w", err)
	}

	return items, nil
}

// ListWithMonthByOrderTx is ListWithMonthByOrder inside the caller's
// transaction, used while the order row is locked.
func (r *IndicatorRepository) ListWithMonthByOrderTx(tx *sqlx.Tx, orderID int64) ([]models.IndicatorWithMonth, error) {
	var items []models.IndicatorWithMonth

	if err := tx.Select(&items, indicatorJoinQuery, orderID); err != nil {
		return nil, fmt.Errorf("failed to list indicators: %w", err)
	}

	return items, nil
}

// GetTx retrieves one line item by its (order, month) pair, inside the
// caller's order transaction.
func (r *IndicatorRepository) GetTx(tx *sqlx.Tx, orderID, monthID int64) (*models.Indicator, error) {
	var item models.Indicator
	query := `
		SELECT id, order_id, month_id, avg_temp, sum_precipitation, comment
		FROM indicators
		WHERE order_id = $1 AND month_id = $2
	`

	err := tx.Get(&item, query, orderID, monthID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("indicator for order %d month %d: %w", orderID, monthID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get indicator: %w", err)
	}

	return &item, nil
}

// UpdateTx writes the observed fields of a line item under the caller's
// order row lock.
func (r *IndicatorRepository) UpdateTx(tx *sqlx.Tx, item *models.Indicator) error {
	query := `
		UPDATE indicators
		SET avg_temp = $1, sum_precipitation = $2, comment = $3
		WHERE order_id = $4 AND month_id = $5
	`

	result, err := tx.Exec(query,
		item.AvgTemp, item.SumPrecipitation, item.Comment, item.OrderID, item.MonthID)
	if err != nil {
		return fmt.Errorf("failed to update indicator: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("indicator for order %d month %d: %w", item.OrderID, item.MonthID, models.ErrNotFound)
	}

	return nil
}

// DeleteTx removes one line item under the caller's order row lock.
func (r *IndicatorRepository) DeleteTx(tx *sqlx.Tx, orderID, monthID int64) error {
	query := `DELETE FROM indicators WHERE order_id = $1 AND month_id = $2`

	result, err := tx.Exec(query, orderID, monthID)
	if err != nil {
		return fmt.Errorf("failed to delete indicator: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("indicator for order %d month %d: %w", orderID, monthID, models.ErrNotFound)
	}

	return nil
}
