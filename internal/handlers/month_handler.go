package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"yield-service/internal/models"
	"yield-service/internal/services"
	"yield-service/internal/utils"

	"github.com/gofiber/fiber/v3"
)

type MonthHandler struct {
	catalogService *services.CatalogService
}

func NewMonthHandler(catalogService *services.CatalogService) *MonthHandler {
	return &MonthHandler{catalogService: catalogService}
}

func (h *MonthHandler) Register(app *fiber.App) {
	months := app.Group("/api/months")

	// Public catalog
	months.Get("/", h.ListMonths)
	months.Get("/:id", h.GetMonth)

	// Admin catalog management
	months.Post("/", h.CreateMonth)
	months.Put("/:id", h.UpdateMonth)
	months.Delete("/:id", h.DeactivateMonth)
	months.Post("/:id/image", h.UploadImage)
}

// ListMonths returns active months, optionally filtered by the q name prefix.
func (h *MonthHandler) ListMonths(c fiber.Ctx) error {
	months, err := h.catalogService.ListMonths(c.Context(), c.Query("q"))
	if err != nil {
		slog.Error("Failed to list months", "error", err)
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(months))
}

func (h *MonthHandler) GetMonth(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	month, err := h.catalogService.GetMonth(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(month))
}

func (h *MonthHandler) CreateMonth(c fiber.Ctx) error {
	actor := actorFromCtx(c)
	if !services.Authorize(actor, services.CapManageCatalog) {
		return c.Status(http.StatusForbidden).JSON(
			utils.CreateErrorResponse("FORBIDDEN", "catalog management requires admin privileges"))
	}

	var req models.MonthCreateRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	month, err := h.catalogService.CreateMonth(c.Context(), req)
	if err != nil {
		slog.Error("Failed to create month", "error", err)
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(month))
}

func (h *MonthHandler) UpdateMonth(c fiber.Ctx) error {
	actor := actorFromCtx(c)
	if !services.Authorize(actor, services.CapManageCatalog) {
		return c.Status(http.StatusForbidden).JSON(
			utils.CreateErrorResponse("FORBIDDEN", "catalog management requires admin privileges"))
	}

	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req models.MonthUpdateRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	month, err := h.catalogService.UpdateMonth(c.Context(), id, req)
	if err != nil {
		slog.Error("Failed to update month", "month_id", id, "error", err)
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(month))
}

func (h *MonthHandler) DeactivateMonth(c fiber.Ctx) error {
	actor := actorFromCtx(c)
	if !services.Authorize(actor, services.CapManageCatalog) {
		return c.Status(http.StatusForbidden).JSON(
			utils.CreateErrorResponse("FORBIDDEN", "catalog management requires admin privileges"))
	}

	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.catalogService.DeactivateMonth(c.Context(), id); err != nil {
		slog.Error("Failed to deactivate month", "month_id", id, "error", err)
		return writeError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}

func (h *MonthHandler) UploadImage(c fiber.Ctx) error {
	actor := actorFromCtx(c)
	if !services.Authorize(actor, services.CapManageCatalog) {
		return c.Status(http.StatusForbidden).JSON(
			utils.CreateErrorResponse("FORBIDDEN", "catalog management requires admin privileges"))
	}

	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Error("Failed to open uploaded file", "month_id", id, "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "unreadable file"))
	}
	defer file.Close()

	key, err := h.catalogService.UploadImage(c.Context(), id,
		fileHeader.Filename, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		slog.Error("Failed to upload month image", "month_id", id, "error", err)
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(fiber.Map{"image_key": key}))
}

// parseID reads an integer path parameter; malformed identifiers are a
// validation failure.
func parseID(c fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.ErrValidation
	}
	return id, nil
}
