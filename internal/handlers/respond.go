package handlers

import (
	"errors"
	"net/http"

	"yield-service/internal/models"
	"yield-service/internal/utils"

	"github.com/gofiber/fiber/v3"
)

// writeError maps a service error onto the taxonomy status and the shared
// response envelope.
func writeError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(
			utils.CreateErrorResponse("NOT_FOUND", err.Error()))
	case errors.Is(err, models.ErrForbidden):
		return c.Status(http.StatusForbidden).JSON(
			utils.CreateErrorResponse("FORBIDDEN", err.Error()))
	case errors.Is(err, models.ErrConflict):
		return c.Status(http.StatusConflict).JSON(
			utils.CreateErrorResponse("CONFLICT", err.Error()))
	case errors.Is(err, models.ErrValidation):
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("VALIDATION_FAILED", err.Error()))
	case errors.Is(err, models.ErrUpstream):
		return c.Status(http.StatusBadGateway).JSON(
			utils.CreateErrorResponse("COMPUTE_UNAVAILABLE", err.Error()))
	default:
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("INTERNAL_ERROR", "internal server error"))
	}
}
