package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"yield-service/internal/event"
	"yield-service/internal/models"
	"yield-service/internal/repository"

	"github.com/shopspring/decimal"
)

// ComputeMode selects the finish strategy for the lifetime of the deployment.
type ComputeMode string

const (
	// ComputeModeLocal runs the estimator in-process on finish.
	ComputeModeLocal ComputeMode = "local"
	// ComputeModeRemote delegates to the external compute service; the order
	// stays submitted until the result callback lands.
	ComputeModeRemote ComputeMode = "remote"
)

// OrderService orchestrates the order lifecycle: cart assembly, the
// draft → submitted → finished/rejected state machine, and the async compute
// gateway operations. Every mutating transition runs inside one transaction
// holding a row lock on the order, so concurrent transitions serialize and
// losers observe the changed status.
type OrderService struct {
	orderRepo     *repository.OrderRepository
	indicatorRepo *repository.IndicatorRepository
	monthRepo     *repository.MonthRepository
	compute       *ComputeClient
	publisher     *event.DecisionPublisher
	mode          ComputeMode
}

func NewOrderService(
	orderRepo *repository.OrderRepository,
	indicatorRepo *repository.IndicatorRepository,
	monthRepo *repository.MonthRepository,
	compute *ComputeClient,
	publisher *event.DecisionPublisher,
	mode ComputeMode,
) *OrderService {
	if mode != ComputeModeLocal {
		mode = ComputeModeRemote
	}
	return &OrderService{
		orderRepo:     orderRepo,
		indicatorRepo: indicatorRepo,
		monthRepo:     monthRepo,
		compute:       compute,
		publisher:     publisher,
		mode:          mode,
	}
}

// AddMonthToCart adds an active month to the actor's draft order, creating
// the draft if absent. Adding the same month twice leaves the existing line
// item untouched.
func (s *OrderService) AddMonthToCart(ctx context.Context, actor models.Actor, monthID int64) (int64, error) {
	if !Authorize(actor, CapOwnOrders) {
		return 0, fmt.Errorf("authentication required: %w", models.ErrForbidden)
	}

	if _, err := s.monthRepo.GetActiveByID(ctx, monthID); err != nil {
		return 0, err
	}

	tx, err := s.orderRepo.BeginTransaction()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	order, err := s.orderRepo.FindOrCreateDraftTx(tx, actor.UserID)
	if err != nil {
		return 0, err
	}

	if err := s.indicatorRepo.AddTx(tx, order.ID, monthID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit add to cart: %w", err)
	}

	return order.ID, nil
}

// GetCart returns the actor's draft order summary.
func (s *OrderService) GetCart(ctx context.Context, actor models.Actor) (*models.CartResponse, error) {
	if !Authorize(actor, CapOwnOrders) {
		return &models.CartResponse{}, nil
	}

	order, err := s.orderRepo.FindDraftByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return &models.CartResponse{}, nil
	}

	count, err := s.indicatorRepo.CountByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return &models.CartResponse{OrderID: &order.ID, ItemsCount: count}, nil
}

// ListOrders returns the orders the actor may see: moderators get every
// non-draft order, everyone else their own.
func (s *OrderService) ListOrders(ctx context.Context, actor models.Actor, filter models.OrderListFilter) ([]models.Order, error) {
	if Authorize(actor, CapModerateOrders) {
		filter.CreatedBy = nil
		filter.ExcludeDraft = true
		return s.orderRepo.List(ctx, filter)
	}

	if !Authorize(actor, CapOwnOrders) {
		return nil, fmt.Errorf("authentication required: %w", models.ErrForbidden)
	}

	filter.CreatedBy = &actor.UserID
	return s.orderRepo.List(ctx, filter)
}

// GetOrder returns an order with its line items. Deleted orders are NotFound
// to every reader; drafts are visible to their owner only.
func (s *OrderService) GetOrder(ctx context.Context, actor models.Actor, id int64) (*models.OrderDetail, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeView(actor, order); err != nil {
		return nil, err
	}

	items, err := s.indicatorRepo.ListWithMonthByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return &models.OrderDetail{Order: *order, Items: items}, nil
}

// UpdateOrder patches the categorical fields while the order is still
// editable. The row lock keeps the status check and the write atomic
// against a concurrent submit, finish or delete.
func (s *OrderService) UpdateOrder(ctx context.Context, actor models.Actor, id int64, req models.OrderUpdateRequest) (*models.OrderDetail, error) {
	tx, err := s.orderRepo.BeginTransaction()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetByIDForUpdate(tx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeMutate(actor, order); err != nil {
		return nil, err
	}
	if !order.Status.AllowsItemEdits() {
		return nil, fmt.Errorf("order %d is %s, only draft or submitted orders can be updated: %w",
			id, order.Status, models.ErrConflict)
	}

	if req.Location != nil {
		if !models.ValidLocation(*req.Location) {
			return nil, fmt.Errorf("unknown location %q: %w", *req.Location, models.ErrValidation)
		}
		order.Location = req.Location
	}
	if req.Person != nil {
		if !models.ValidPerson(*req.Person) {
			return nil, fmt.Errorf("unknown person %q: %w", *req.Person, models.ErrValidation)
		}
		order.Person = req.Person
	}

	if err := s.orderRepo.UpdateLocationPersonTx(tx, id, order.Location, order.Person); err != nil {
		return nil, err
	}

	items, err := s.indicatorRepo.ListWithMonthByOrderTx(tx, order.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order update: %w", err)
	}

	return &models.OrderDetail{Order: *order, Items: items}, nil
}

// DeleteOrder flips the order to its terminal deleted state.
func (s *OrderService) DeleteOrder(ctx context.Context, actor models.Actor, id int64) error {
	tx, err := s.orderRepo.BeginTransaction()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetByIDForUpdate(tx, id)
	if err != nil {
		return err
	}

	if err := s.authorizeMutate(actor, order); err != nil {
		return err
	}
	if !order.Status.CanTransition(models.OrderDeleted) {
		return fmt.Errorf("order %d is %s, only draft or submitted orders can be deleted: %w",
			id, order.Status, models.ErrConflict)
	}

	if err := s.orderRepo.MarkDeletedTx(tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order delete: %w", err)
	}

	return nil
}

// Submit moves a draft order to submitted. Requires at least one line item
// and both categorical fields.
func (s *OrderService) Submit(ctx context.Context, actor models.Actor, id int64) (*models.Order, error) {
	tx, err := s.orderRepo.BeginTransaction()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetByIDForUpdate(tx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeMutate(actor, order); err != nil {
		return nil, err
	}
	if order.Status != models.OrderDraft {
		return nil, fmt.Errorf("order %d is %s, only draft orders can be submitted: %w",
			id, order.Status, models.ErrConflict)
	}

	count, err := s.indicatorRepo.CountByOrderTx(tx, id)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("order %d has no indicators: %w", id, models.ErrValidation)
	}
	if order.Location == nil || order.Person == nil {
		return nil, fmt.Errorf("location and person are required before submission: %w", models.ErrValidation)
	}

	now := time.Now()
	if err := s.orderRepo.MarkSubmittedTx(tx, id, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order submit: %w", err)
	}

	order.Status = models.OrderSubmitted
	order.SubmittedAt = &now
	return order, nil
}

// Finish actions a submitted order. In local mode the estimator runs
// in-process and the order completes immediately; in remote mode the
// moderator is recorded and the computation is delegated, leaving the order
// submitted until the callback. A failed hand-off rolls everything back.
func (s *OrderService) Finish(ctx context.Context, actor models.Actor, id int64) (*models.Order, error) {
	if !Authorize(actor, CapModerateOrders) {
		return nil, fmt.Errorf("moderation privileges required: %w", models.ErrForbidden)
	}

	tx, err := s.orderRepo.BeginTransaction()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetByIDForUpdate(tx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderSubmitted {
		return nil, fmt.Errorf("order %d is %s, only submitted orders can be finished: %w",
			id, order.Status, models.ErrConflict)
	}

	if s.mode == ComputeModeLocal {
		items, err := s.indicatorRepo.ListWithMonthByOrderTx(tx, id)
		if err != nil {
			return nil, err
		}

		result := Estimate(items)
		now := time.Now()
		if err := s.orderRepo.FinishTx(tx, id, actor.UserID, now, result); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit order finish: %w", err)
		}

		order.Status = models.OrderFinished
		order.Moderator = &actor.UserID
		order.FinishedAt = &now
		order.ResultValue = decimal.NullDecimal{Decimal: result, Valid: true}
		s.publishDecision(ctx, order)
		return order, nil
	}

	if err := s.orderRepo.SetModeratorTx(tx, id, actor.UserID); err != nil {
		return nil, err
	}
	if err := s.compute.RequestComputation(ctx, id); err != nil {
		// Rollback via defer: the failed hand-off leaves no trace.
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit compute hand-off: %w", err)
	}

	order.Moderator = &actor.UserID
	return order, nil
}

// Reject declines a submitted order.
func (s *OrderService) Reject(ctx context.Context, actor models.Actor, id int64) (*models.Order, error) {
	if !Authorize(actor, CapModerateOrders) {
		return nil, fmt.Errorf("moderation privileges required: %w", models.ErrForbidden)
	}

	tx, err := s.orderRepo.BeginTransaction()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetByIDForUpdate(tx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderSubmitted {
		return nil, fmt.Errorf("order %d is %s, only submitted orders can be rejected: %w",
			id, order.Status, models.ErrConflict)
	}

	now := time.Now()
	if err := s.orderRepo.RejectTx(tx, id, actor.UserID, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order reject: %w", err)
	}

	order.Status = models.OrderRejected
	order.Moderator = &actor.UserID
	order.FinishedAt = &now
	s.publishDecision(ctx, order)
	return order, nil
}

// UpdateIndicator patches a line item while the order is editable. Locking
// the order row keeps the edit from landing on an order a concurrent finish
// or reject just closed.
func (s *OrderService) UpdateIndicator(ctx context.Context, actor models.Actor, orderID, monthID int64, req models.IndicatorUpdateRequest) (*models.Indicator, error) {
	tx, err := s.orderRepo.BeginTransaction()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetByIDForUpdate(tx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeMutate(actor, order); err != nil {
		return nil, err
	}
	if err := ensureIndicatorsEditable(order); err != nil {
		return nil, err
	}

	item, err := s.indicatorRepo.GetTx(tx, orderID, monthID)
	if err != nil {
		return nil, err
	}

	if req.AvgTemp != nil {
		item.AvgTemp = *req.AvgTemp
	}
	if req.SumPrecipitation != nil {
		item.SumPrecipitation = *req.SumPrecipitation
	}
	if req.Comment != nil {
		item.Comment = req.Comment
	}

	if err := s.indicatorRepo.UpdateTx(tx, item); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit indicator update: %w", err)
	}

	return item, nil
}

// RemoveIndicator deletes a line item while the order is editable, under the
// same order row lock as every other mutating transition.
func (s *OrderService) RemoveIndicator(ctx context.Context, actor models.Actor, orderID, monthID int64) error {
	tx, err := s.orderRepo.BeginTransaction()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetByIDForUpdate(tx, orderID)
	if err != nil {
		return err
	}

	if err := s.authorizeMutate(actor, order); err != nil {
		return err
	}
	if err := ensureIndicatorsEditable(order); err != nil {
		return err
	}

	if err := s.indicatorRepo.DeleteTx(tx, orderID, monthID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit indicator removal: %w", err)
	}

	return nil
}

// GetComputePayload serves the indicator rows of a submitted order to the
// external compute service, decimals as exact strings.
func (s *OrderService) GetComputePayload(ctx context.Context, orderID int64) (*models.ComputePayload, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderSubmitted {
		return nil, fmt.Errorf("order %d is %s, payload is only served for submitted orders: %w",
			orderID, order.Status, models.ErrConflict)
	}

	items, err := s.indicatorRepo.ListWithMonthByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	payload := &models.ComputePayload{
		OrderID: orderID,
		Items:   make([]models.ComputePayloadItem, 0, len(items)),
	}
	for _, it := range items {
		payload.Items = append(payload.Items, models.ComputePayloadItem{
			MonthID:          it.MonthID,
			BaseYield:        it.BaseYield,
			IdealTemp:        it.IdealTemp,
			IdealPrecip:      decimal.NewFromInt(it.IdealPrecip),
			AvgTemp:          it.AvgTemp,
			SumPrecipitation: it.SumPrecipitation,
			Comment:          it.Comment,
		})
	}

	return payload, nil
}

// DeliverResult finalizes a submitted order with an externally computed
// value. A second delivery, or one arriving after the order already left
// submitted, is rejected with Conflict and leaves the stored value untouched.
func (s *OrderService) DeliverResult(ctx context.Context, orderID int64, rawValue string) (*models.Order, error) {
	result, err := decimal.NewFromString(rawValue)
	if err != nil {
		return nil, fmt.Errorf("result_value %q is not a decimal: %w", rawValue, models.ErrValidation)
	}

	tx, err := s.orderRepo.BeginTransaction()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := s.orderRepo.GetByIDForUpdate(tx, orderID)
	if err != nil {
		return nil, err
	}
	if err := ensureResultDeliverable(order); err != nil {
		return nil, err
	}

	now := time.Now()
	rounded := result.Round(2)
	if err := s.orderRepo.CompleteWithResultTx(tx, orderID, now, rounded); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit result delivery: %w", err)
	}

	order.Status = models.OrderFinished
	order.FinishedAt = &now
	order.ResultValue = decimal.NullDecimal{Decimal: rounded, Valid: true}
	s.publishDecision(ctx, order)
	return order, nil
}

// ensureIndicatorsEditable rejects line-item writes once the order has left
// the editable states. Callers hold the order row lock, so a finished order
// keeps exactly the indicator set its stored result was computed from.
func ensureIndicatorsEditable(order *models.Order) error {
	if order.Status.AllowsItemEdits() {
		return nil
	}
	return fmt.Errorf("order %d is %s, indicators can only be edited on draft or submitted orders: %w",
		order.ID, order.Status, models.ErrConflict)
}

// ensureResultDeliverable accepts a callback result only while the order is
// still submitted. A repeated delivery finds the order finished and lands
// here, leaving the first stored value untouched.
func ensureResultDeliverable(order *models.Order) error {
	if order.Status == models.OrderSubmitted {
		return nil
	}
	return fmt.Errorf("order %d is %s, result already delivered or order no longer submitted: %w",
		order.ID, order.Status, models.ErrConflict)
}

// authorizeView: owner always; moderators for submitted and later.
func (s *OrderService) authorizeView(actor models.Actor, order *models.Order) error {
	if order.Status == models.OrderDeleted {
		return fmt.Errorf("order %d: %w", order.ID, models.ErrNotFound)
	}
	if order.CreatedBy == actor.UserID && !actor.Anonymous() {
		return nil
	}
	if order.Status != models.OrderDraft && Authorize(actor, CapModerateOrders) {
		return nil
	}
	return fmt.Errorf("order %d does not belong to this user: %w", order.ID, models.ErrForbidden)
}

// authorizeMutate: owner or moderator; deleted orders are invisible.
func (s *OrderService) authorizeMutate(actor models.Actor, order *models.Order) error {
	if order.Status == models.OrderDeleted {
		return fmt.Errorf("order %d: %w", order.ID, models.ErrNotFound)
	}
	if order.CreatedBy == actor.UserID && !actor.Anonymous() {
		return nil
	}
	if Authorize(actor, CapModerateOrders) {
		return nil
	}
	return fmt.Errorf("order %d does not belong to this user: %w", order.ID, models.ErrForbidden)
}

// publishDecision pushes a decision event, best-effort.
func (s *OrderService) publishDecision(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}

	evt := event.OrderDecisionEvent{
		OrderID: order.ID,
		UserID:  order.CreatedBy,
		Status:  string(order.Status),
	}
	if order.ResultValue.Valid {
		v := order.ResultValue.Decimal.StringFixed(2)
		evt.ResultValue = &v
	}

	if err := s.publisher.PublishDecision(ctx, evt); err != nil {
		slog.Error("Failed to publish order decision event", "order_id", order.ID, "error", err)
	}
}
