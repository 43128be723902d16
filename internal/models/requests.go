package models

import "github.com/shopspring/decimal"

// ============================================================================
// CATALOG REQUESTS
// ============================================================================

type MonthCreateRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	MainValue     string          `json:"main_value"`
	BaseYield     decimal.Decimal `json:"base_yield"`
	IdealTemp     decimal.Decimal `json:"ideal_temp"`
	IdealPrecip   int64           `json:"ideal_precip"`
	Temperature   *string         `json:"temperature"`
	Precipitation *string         `json:"precipitation"`
}

// MonthUpdateRequest is a partial update: only non-nil fields are applied.
type MonthUpdateRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	MainValue     *string          `json:"main_value"`
	BaseYield     *decimal.Decimal `json:"base_yield"`
	IdealTemp     *decimal.Decimal `json:"ideal_temp"`
	IdealPrecip   *int64           `json:"ideal_precip"`
	Temperature   *string          `json:"temperature"`
	Precipitation *string          `json:"precipitation"`
}

// ============================================================================
// ORDER REQUESTS
// ============================================================================

// OrderUpdateRequest patches the categorical fields required for submission.
type OrderUpdateRequest struct {
	Location *string `json:"location"`
	Person   *string `json:"person"`
}

// IndicatorUpdateRequest patches a line item; only non-nil fields are applied.
type IndicatorUpdateRequest struct {
	AvgTemp          *decimal.Decimal `json:"avg_temp"`
	SumPrecipitation *decimal.Decimal `json:"sum_precipitation"`
	Comment          *string          `json:"comment"`
}

// CartResponse mirrors the cart summary endpoint.
type CartResponse struct {
	OrderID    *int64 `json:"order_id"`
	ItemsCount int    `json:"items_count"`
}

// AddToCartResponse carries the target order id; SessionToken is set only
// when the call minted a fresh guest identity.
type AddToCartResponse struct {
	OrderID      int64  `json:"order_id"`
	SessionToken string `json:"session_token,omitempty"`
}

// ============================================================================
// ASYNC COMPUTE GATEWAY
// ============================================================================

// DeliverResultRequest carries the computed value as a decimal string; the
// gateway parses it exactly, never through a binary float.
type DeliverResultRequest struct {
	OrderID     int64  `json:"order_id"`
	ResultValue string `json:"result_value"`
}

// ComputeRequest is the hand-off body sent to the external compute service.
type ComputeRequest struct {
	OrderID     int64  `json:"order_id"`
	CallbackURL string `json:"callback_url"`
}

// ============================================================================
// AUTH REQUESTS
// ============================================================================

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileUpdateRequest patches profile fields; only non-nil fields are applied.
type ProfileUpdateRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}
