package handlers

import (
	"log/slog"
	"net/http"

	"yield-service/internal/models"
	"yield-service/internal/services"
	"yield-service/internal/utils"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	sessionService *services.SessionService
}

func NewAuthHandler(sessionService *services.SessionService) *AuthHandler {
	return &AuthHandler{sessionService: sessionService}
}

func (h *AuthHandler) Register(app *fiber.App) {
	auth := app.Group("/api/auth")
	auth.Post("/register", h.RegisterUser)
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", h.Me)
	auth.Put("/me", h.UpdateMe)
}

func (h *AuthHandler) RegisterUser(c fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	user, err := h.sessionService.Register(c.Context(), req)
	if err != nil {
		slog.Error("Failed to register user", "username", req.Username, "error", err)
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(user))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	token, err := h.sessionService.Login(c.Context(), req)
	if err != nil {
		slog.Warn("Login failed", "username", req.Username, "error", err)
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(fiber.Map{
		"session_token": token,
	}))
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return c.Status(http.StatusUnauthorized).JSON(
			utils.CreateErrorResponse("UNAUTHORIZED", "Missing session token"))
	}

	if err := h.sessionService.Logout(c.Context(), token); err != nil {
		slog.Error("Failed to log out", "error", err)
		return writeError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	user, err := h.sessionService.Me(c.Context(), actorFromCtx(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(user))
}

func (h *AuthHandler) UpdateMe(c fiber.Ctx) error {
	var req models.ProfileUpdateRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	user, err := h.sessionService.UpdateMe(c.Context(), actorFromCtx(c), req)
	if err != nil {
		slog.Error("Failed to update profile", "error", err)
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(user))
}
