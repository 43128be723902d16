package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"yield-service/internal/models"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func computeAuthApp(token string) *fiber.App {
	mw := NewMiddleware(nil, token)
	app := fiber.New()
	app.Use(mw.ComputeAuth)
	app.Get("/guarded", func(c fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func TestComputeAuth_AcceptsConfiguredToken(t *testing.T) {
	app := computeAuthApp("s3cret")

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("X-Compute-Token", "s3cret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestComputeAuth_RejectsWrongOrMissingToken(t *testing.T) {
	app := computeAuthApp("s3cret")

	for _, token := range []string{"", "wrong"} {
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		if token != "" {
			req.Header.Set("X-Compute-Token", token)
		}

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "token %q", token)
	}
}

func TestComputeAuth_RejectsEverythingWhenUnconfigured(t *testing.T) {
	// An empty configured token locks the gateway instead of opening it.
	app := computeAuthApp("")

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("X-Compute-Token", "")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWriteError_TaxonomyStatusMapping(t *testing.T) {
	cases := []struct {
		err      error
		expected int
	}{
		{models.ErrNotFound, http.StatusNotFound},
		{models.ErrForbidden, http.StatusForbidden},
		{models.ErrConflict, http.StatusConflict},
		{models.ErrValidation, http.StatusBadRequest},
		{models.ErrUpstream, http.StatusBadGateway},
		{fmt.Errorf("order 5 is gone: %w", models.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		app := fiber.New()
		failing := tc.err
		app.Get("/fail", func(c fiber.Ctx) error {
			return writeError(c, failing)
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.expected, resp.StatusCode, "error %v", tc.err)
	}
}
