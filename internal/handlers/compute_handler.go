package handlers

import (
	"log/slog"
	"net/http"

	"yield-service/internal/models"
	"yield-service/internal/services"
	"yield-service/internal/utils"

	"github.com/gofiber/fiber/v3"
)

// ComputeHandler exposes the machine-to-machine surface used by the remote
// yield calculator: it pulls the payload for a submitted order and posts the
// computed value back. Every route sits behind the shared compute token.
type ComputeHandler struct {
	orderService *services.OrderService
	mw           *Middleware
}

func NewComputeHandler(orderService *services.OrderService, mw *Middleware) *ComputeHandler {
	return &ComputeHandler{
		orderService: orderService,
		mw:           mw,
	}
}

func (h *ComputeHandler) Register(app *fiber.App) {
	compute := app.Group("/api/compute", h.mw.ComputeAuth)
	compute.Get("/orders/:id/payload", h.GetPayload)
	compute.Post("/orders/:id/result", h.DeliverResult)
}

func (h *ComputeHandler) GetPayload(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	payload, err := h.orderService.GetComputePayload(c.Context(), id)
	if err != nil {
		slog.Error("Failed to build compute payload", "order_id", id, "error", err)
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(payload))
}

func (h *ComputeHandler) DeliverResult(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req models.DeliverResultRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	order, err := h.orderService.DeliverResult(c.Context(), id, req.ResultValue)
	if err != nil {
		slog.Error("Failed to deliver compute result", "order_id", id, "error", err)
		return writeError(c, err)
	}

	slog.Info("Compute result accepted", "order_id", order.ID, "status", order.Status)
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(order))
}
