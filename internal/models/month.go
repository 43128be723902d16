package models

import "github.com/shopspring/decimal"

// Month is a catalog entry describing ideal growing conditions for a calendar
// month. Rows are never removed: deactivation flips Status and clears the
// image key, since indicators of historical orders keep referencing the row.
type Month struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	MainValue   string          `json:"main_value" db:"main_value"`
	ImageKey    *string         `json:"image_key,omitempty" db:"image_key"`
	BaseYield   decimal.Decimal `json:"base_yield" db:"base_yield"`
	IdealTemp   decimal.Decimal `json:"ideal_temp" db:"ideal_temp"`
	IdealPrecip int64           `json:"ideal_precip" db:"ideal_precip"`

	// Informational stats shown in the catalog, not used in estimation.
	Temperature   *string `json:"temperature,omitempty" db:"temperature"`
	Precipitation *string `json:"precipitation,omitempty" db:"precipitation"`

	Status bool `json:"status" db:"status"`

	// Public URL for ImageKey, filled by the catalog service.
	ImageURL *string `json:"image_url,omitempty" db:"-"`
}
