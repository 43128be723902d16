package handlers

import (
	"net/http"
	"strings"

	"yield-service/internal/models"
	"yield-service/internal/services"
	"yield-service/internal/utils"

	"github.com/gofiber/fiber/v3"
)

const actorLocalKey = "actor"

type Middleware struct {
	sessions     *services.SessionService
	computeToken string
}

func NewMiddleware(sessions *services.SessionService, computeToken string) *Middleware {
	return &Middleware{
		sessions:     sessions,
		computeToken: computeToken,
	}
}

// ResolveActor resolves the bearer session token into the request actor.
// Missing or stale tokens resolve to the anonymous actor; handlers decide
// what anonymous callers may do.
func (m *Middleware) ResolveActor(c fiber.Ctx) error {
	token := bearerToken(c)
	actor := m.sessions.ResolveActor(c.Context(), token)
	c.Locals(actorLocalKey, actor)
	return c.Next()
}

// ComputeAuth guards the async compute gateway with the shared machine token.
func (m *Middleware) ComputeAuth(c fiber.Ctx) error {
	token := c.Get("X-Compute-Token")
	if m.computeToken == "" || token != m.computeToken {
		return c.Status(http.StatusUnauthorized).JSON(
			utils.CreateErrorResponse("INVALID_TOKEN", "valid compute token required"))
	}
	return c.Next()
}

// actorFromCtx returns the resolved actor, or the anonymous actor when the
// middleware did not run.
func actorFromCtx(c fiber.Ctx) models.Actor {
	if actor, ok := c.Locals(actorLocalKey).(models.Actor); ok {
		return actor
	}
	return models.Actor{}
}

func bearerToken(c fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}
