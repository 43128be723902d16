package event

// OrderDecisionEvent is pushed when a moderator decision lands on an order,
// either directly or through the async compute callback.
type OrderDecisionEvent struct {
	OrderID     int64   `json:"order_id"`
	UserID      int64   `json:"user_id"`
	Status      string  `json:"status"`
	ResultValue *string `json:"result_value,omitempty"`
}

const OrderDecisionQueue string = "order_decision_events"
