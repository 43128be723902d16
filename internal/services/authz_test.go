package services

import (
	"testing"

	"yield-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize_CapabilityMatrix(t *testing.T) {
	anonymous := models.Actor{}
	guest := models.Actor{UserID: 7}
	manager := models.Actor{UserID: 8, IsManager: true}
	admin := models.Actor{UserID: 9, IsAdmin: true}

	cases := []struct {
		name     string
		actor    models.Actor
		cap      Capability
		expected bool
	}{
		{"anonymous browses catalog", anonymous, CapBrowseCatalog, true},
		{"anonymous has no orders", anonymous, CapOwnOrders, false},
		{"anonymous cannot moderate", anonymous, CapModerateOrders, false},
		{"anonymous cannot manage catalog", anonymous, CapManageCatalog, false},

		{"guest browses catalog", guest, CapBrowseCatalog, true},
		{"guest owns orders", guest, CapOwnOrders, true},
		{"guest cannot moderate", guest, CapModerateOrders, false},
		{"guest cannot manage catalog", guest, CapManageCatalog, false},

		{"manager owns orders", manager, CapOwnOrders, true},
		{"manager moderates", manager, CapModerateOrders, true},
		{"manager cannot manage catalog", manager, CapManageCatalog, false},

		{"admin moderates", admin, CapModerateOrders, true},
		{"admin manages catalog", admin, CapManageCatalog, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Authorize(tc.actor, tc.cap))
		})
	}
}

func TestAuthorize_UnknownCapabilityDenied(t *testing.T) {
	admin := models.Actor{UserID: 1, IsAdmin: true}
	assert.False(t, Authorize(admin, Capability("orders.export")))
}
