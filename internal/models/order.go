package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderDraft     OrderStatus = "draft"
	OrderSubmitted OrderStatus = "submitted"
	OrderFinished  OrderStatus = "finished"
	OrderRejected  OrderStatus = "rejected"
	OrderDeleted   OrderStatus = "deleted"
)

// orderTransitions is the full transition table. finished, rejected and
// deleted are terminal: no entry, no way out.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderDraft:     {OrderSubmitted, OrderDeleted},
	OrderSubmitted: {OrderFinished, OrderRejected, OrderDeleted},
}

// CanTransition reports whether the state machine allows moving from s to.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowsItemEdits reports whether indicator rows may be created, updated or
// removed while the order is in this state.
func (s OrderStatus) AllowsItemEdits() bool {
	return s == OrderDraft || s == OrderSubmitted
}

// Terminal reports whether no further transition may leave this state.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderDraft, OrderSubmitted, OrderFinished, OrderRejected, OrderDeleted:
		return true
	}
	return false
}

// Locations and persons-in-charge are fixed enumerations, both required
// before an order may be submitted.
var (
	OrderLocations = []string{"moscow", "spb", "kazan"}
	OrderPersons   = []string{"ivanov", "petrov", "sidorov"}
)

func ValidLocation(v string) bool { return contains(OrderLocations, v) }
func ValidPerson(v string) bool   { return contains(OrderPersons, v) }

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Order is the cart/application aggregate root.
type Order struct {
	ID          int64               `json:"id" db:"id"`
	Status      OrderStatus         `json:"status" db:"status"`
	CreatedBy   int64               `json:"created_by" db:"created_by"`
	Moderator   *int64              `json:"moderator,omitempty" db:"moderator"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
	SubmittedAt *time.Time          `json:"submitted_at,omitempty" db:"submitted_at"`
	FinishedAt  *time.Time          `json:"finished_at,omitempty" db:"finished_at"`
	Location    *string             `json:"location,omitempty" db:"location"`
	Person      *string             `json:"person,omitempty" db:"person"`
	ResultValue decimal.NullDecimal `json:"result_value" db:"result_value"`
}

// OrderDetail is an order joined with its indicator line items.
type OrderDetail struct {
	Order
	Items []IndicatorWithMonth `json:"items"`
}

// OrderListFilter narrows ListOrders; nil fields are skipped.
type OrderListFilter struct {
	CreatedBy     *int64
	Status        *OrderStatus
	SubmittedFrom *time.Time
	SubmittedTo   *time.Time
	ExcludeDraft  bool
}
