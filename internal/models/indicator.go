package models

import "github.com/shopspring/decimal"

// Indicator is an order line item: observed conditions for one month within
// one order. Unique per (order, month).
type Indicator struct {
	ID               int64           `json:"id" db:"id"`
	OrderID          int64           `json:"order_id" db:"order_id"`
	MonthID          int64           `json:"month_id" db:"month_id"`
	AvgTemp          decimal.Decimal `json:"avg_temp" db:"avg_temp"`
	SumPrecipitation decimal.Decimal `json:"sum_precipitation" db:"sum_precipitation"`
	Comment          *string         `json:"comment,omitempty" db:"comment"`
}

// IndicatorWithMonth joins an indicator with the reference fields of its
// month, enough for display and for estimation.
type IndicatorWithMonth struct {
	Indicator
	MonthName   string          `json:"month_name" db:"month_name"`
	BaseYield   decimal.Decimal `json:"base_yield" db:"base_yield"`
	IdealTemp   decimal.Decimal `json:"ideal_temp" db:"ideal_temp"`
	IdealPrecip int64           `json:"ideal_precip" db:"ideal_precip"`
}

// ComputePayloadItem is one row of the async compute payload. Decimals
// marshal as quoted strings, so values survive transit without a binary
// float conversion.
type ComputePayloadItem struct {
	MonthID          int64           `json:"month_id"`
	BaseYield        decimal.Decimal `json:"base_yield"`
	IdealTemp        decimal.Decimal `json:"ideal_temp"`
	IdealPrecip      decimal.Decimal `json:"ideal_precip"`
	AvgTemp          decimal.Decimal `json:"avg_temp"`
	SumPrecipitation decimal.Decimal `json:"sum_precipitation"`
	Comment          *string         `json:"comment"`
}

// ComputePayload is the full body served to the external compute service.
type ComputePayload struct {
	OrderID int64                `json:"order_id"`
	Items   []ComputePayloadItem `json:"items"`
}
