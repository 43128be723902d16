package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The compute payload must carry exact decimal strings, never binary floats.
func TestComputePayload_DecimalsMarshalAsStrings(t *testing.T) {
	payload := ComputePayload{
		OrderID: 5,
		Items: []ComputePayloadItem{{
			MonthID:          3,
			BaseYield:        decimal.RequireFromString("30.00"),
			IdealTemp:        decimal.RequireFromString("17.5"),
			IdealPrecip:      decimal.NewFromInt(40),
			AvgTemp:          decimal.RequireFromString("16.1"),
			SumPrecipitation: decimal.RequireFromString("39"),
		}},
	}

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"base_yield":"30"`)
	assert.Contains(t, string(raw), `"ideal_temp":"17.5"`)
	assert.Contains(t, string(raw), `"avg_temp":"16.1"`)
	assert.Contains(t, string(raw), `"comment":null`)
}

func TestOrder_ResultValueMarshalsNullUntilSet(t *testing.T) {
	var order Order
	raw, err := json.Marshal(order)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"result_value":null`)

	order.ResultValue = decimal.NullDecimal{
		Decimal: decimal.RequireFromString("42.50"),
		Valid:   true,
	}
	raw, err = json.Marshal(order)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"result_value":"42.5"`)
}
