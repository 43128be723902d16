package services

import "yield-service/internal/models"

// Capability is a named permission checked per operation. Privilege flags on
// the actor expand into a capability set; there is no permission-object
// polymorphism, just this one pure check.
type Capability string

const (
	CapBrowseCatalog  Capability = "catalog.browse"
	CapManageCatalog  Capability = "catalog.manage"
	CapOwnOrders      Capability = "orders.own"
	CapModerateOrders Capability = "orders.moderate"
)

// Authorize reports whether the actor holds the capability. Anonymous callers
// may only browse the public catalog; any resolved identity (guests included)
// may work its own orders; manager or admin moderates; admin manages the
// catalog.
func Authorize(actor models.Actor, cap Capability) bool {
	switch cap {
	case CapBrowseCatalog:
		return true
	case CapOwnOrders:
		return !actor.Anonymous()
	case CapModerateOrders:
		return actor.IsManager || actor.IsAdmin
	case CapManageCatalog:
		return actor.IsAdmin
	}
	return false
}
