package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"yield-service/internal/models"
	"yield-service/internal/services"
	"yield-service/internal/utils"

	"github.com/gofiber/fiber/v3"
)

type OrderHandler struct {
	orderService   *services.OrderService
	sessionService *services.SessionService
}

func NewOrderHandler(orderService *services.OrderService, sessionService *services.SessionService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		sessionService: sessionService,
	}
}

func (h *OrderHandler) Register(app *fiber.App) {
	// Cart entry point lives on the catalog, like the storefront flow.
	app.Post("/api/months/:id/add", h.AddToCart)

	orders := app.Group("/api/orders")
	orders.Get("/cart", h.GetCart)
	orders.Get("/", h.ListOrders)
	orders.Get("/:id", h.GetOrder)
	orders.Put("/:id", h.UpdateOrder)
	orders.Delete("/:id", h.DeleteOrder)

	orders.Put("/:id/submit", h.SubmitOrder)
	orders.Put("/:id/finish", h.FinishOrder)
	orders.Put("/:id/reject", h.RejectOrder)

	orders.Put("/:id/items/:month_id", h.UpdateIndicator)
	orders.Delete("/:id/items/:month_id", h.RemoveIndicator)
}

// AddToCart adds a month to the caller's draft order. Anonymous callers get
// a fresh guest identity; its session token rides back in the response.
func (h *OrderHandler) AddToCart(c fiber.Ctx) error {
	monthID, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	actor := actorFromCtx(c)
	sessionToken := ""
	if actor.Anonymous() {
		guest, token, err := h.sessionService.CreateGuest(c.Context())
		if err != nil {
			slog.Error("Failed to create guest identity", "error", err)
			return writeError(c, err)
		}
		actor = guest
		sessionToken = token
	}

	orderID, err := h.orderService.AddMonthToCart(c.Context(), actor, monthID)
	if err != nil {
		slog.Error("Failed to add month to cart", "month_id", monthID, "error", err)
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(models.AddToCartResponse{
		OrderID:      orderID,
		SessionToken: sessionToken,
	}))
}

func (h *OrderHandler) GetCart(c fiber.Ctx) error {
	cart, err := h.orderService.GetCart(c.Context(), actorFromCtx(c))
	if err != nil {
		slog.Error("Failed to get cart", "error", err)
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(cart))
}

func (h *OrderHandler) ListOrders(c fiber.Ctx) error {
	filter, err := parseListFilter(c)
	if err != nil {
		return writeError(c, err)
	}

	orders, err := h.orderService.ListOrders(c.Context(), actorFromCtx(c), filter)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(orders))
}

func (h *OrderHandler) GetOrder(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	detail, err := h.orderService.GetOrder(c.Context(), actorFromCtx(c), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(detail))
}

func (h *OrderHandler) UpdateOrder(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req models.OrderUpdateRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	detail, err := h.orderService.UpdateOrder(c.Context(), actorFromCtx(c), id, req)
	if err != nil {
		slog.Error("Failed to update order", "order_id", id, "error", err)
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(detail))
}

func (h *OrderHandler) DeleteOrder(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.orderService.DeleteOrder(c.Context(), actorFromCtx(c), id); err != nil {
		slog.Error("Failed to delete order", "order_id", id, "error", err)
		return writeError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}

func (h *OrderHandler) SubmitOrder(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	order, err := h.orderService.Submit(c.Context(), actorFromCtx(c), id)
	if err != nil {
		slog.Error("Failed to submit order", "order_id", id, "error", err)
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(order))
}

func (h *OrderHandler) FinishOrder(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	order, err := h.orderService.Finish(c.Context(), actorFromCtx(c), id)
	if err != nil {
		slog.Error("Failed to finish order", "order_id", id, "error", err)
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(order))
}

func (h *OrderHandler) RejectOrder(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	order, err := h.orderService.Reject(c.Context(), actorFromCtx(c), id)
	if err != nil {
		slog.Error("Failed to reject order", "order_id", id, "error", err)
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(order))
}

func (h *OrderHandler) UpdateIndicator(c fiber.Ctx) error {
	orderID, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	monthID, err := parseID(c, "month_id")
	if err != nil {
		return writeError(c, err)
	}

	var req models.IndicatorUpdateRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	item, err := h.orderService.UpdateIndicator(c.Context(), actorFromCtx(c), orderID, monthID, req)
	if err != nil {
		slog.Error("Failed to update indicator", "order_id", orderID, "month_id", monthID, "error", err)
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(item))
}

func (h *OrderHandler) RemoveIndicator(c fiber.Ctx) error {
	orderID, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	monthID, err := parseID(c, "month_id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.orderService.RemoveIndicator(c.Context(), actorFromCtx(c), orderID, monthID); err != nil {
		slog.Error("Failed to remove indicator", "order_id", orderID, "month_id", monthID, "error", err)
		return writeError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}

func parseListFilter(c fiber.Ctx) (models.OrderListFilter, error) {
	var filter models.OrderListFilter

	if statusParam := c.Query("status"); statusParam != "" {
		status := models.OrderStatus(statusParam)
		if !status.Valid() {
			return filter, fmt.Errorf("unknown status %q: %w", statusParam, models.ErrValidation)
		}
		filter.Status = &status
	}
	if fromParam := c.Query("submitted_from"); fromParam != "" {
		from, err := parseTimeParam(fromParam)
		if err != nil {
			return filter, err
		}
		filter.SubmittedFrom = &from
	}
	if toParam := c.Query("submitted_to"); toParam != "" {
		to, err := parseTimeParam(toParam)
		if err != nil {
			return filter, err
		}
		filter.SubmittedTo = &to
	}

	return filter, nil
}

func parseTimeParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, models.ErrValidation)
}
