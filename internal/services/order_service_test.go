package services

import (
	"testing"

	"yield-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderInStatus(status models.OrderStatus) *models.Order {
	return &models.Order{ID: 11, Status: status, CreatedBy: 3}
}

func TestEnsureIndicatorsEditable_ClosedOrderRejectsEdits(t *testing.T) {
	// An order that already carries a persisted result must keep the
	// indicator set that result was computed from.
	for _, status := range []models.OrderStatus{models.OrderFinished, models.OrderRejected, models.OrderDeleted} {
		err := ensureIndicatorsEditable(orderInStatus(status))
		assert.ErrorIs(t, err, models.ErrConflict, "status %s", status)
	}
}

func TestEnsureIndicatorsEditable_OpenOrderAllowsEdits(t *testing.T) {
	require.NoError(t, ensureIndicatorsEditable(orderInStatus(models.OrderDraft)))
	require.NoError(t, ensureIndicatorsEditable(orderInStatus(models.OrderSubmitted)))
}

func TestEnsureResultDeliverable_OnlySubmittedAcceptsResult(t *testing.T) {
	require.NoError(t, ensureResultDeliverable(orderInStatus(models.OrderSubmitted)))

	for _, status := range []models.OrderStatus{models.OrderDraft, models.OrderFinished, models.OrderRejected, models.OrderDeleted} {
		err := ensureResultDeliverable(orderInStatus(status))
		assert.ErrorIs(t, err, models.ErrConflict, "status %s", status)
	}
}

func TestEnsureResultDeliverable_SecondDeliveryConflicts(t *testing.T) {
	order := orderInStatus(models.OrderSubmitted)
	require.NoError(t, ensureResultDeliverable(order))

	// First delivery commits and flips the status; the retry must bounce.
	order.Status = models.OrderFinished
	assert.ErrorIs(t, ensureResultDeliverable(order), models.ErrConflict)
}
