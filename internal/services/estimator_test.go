package services

import (
	"testing"

	"yield-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func indicatorRow(baseYield, idealTemp string, idealPrecip int64, avgTemp, sumPrecip string) models.IndicatorWithMonth {
	return models.IndicatorWithMonth{
		Indicator: models.Indicator{
			AvgTemp:          decimal.RequireFromString(avgTemp),
			SumPrecipitation: decimal.RequireFromString(sumPrecip),
		},
		BaseYield:   decimal.RequireFromString(baseYield),
		IdealTemp:   decimal.RequireFromString(idealTemp),
		IdealPrecip: idealPrecip,
	}
}

func TestEstimate_IdealConditionsKeepFullBaseYield(t *testing.T) {
	rows := []models.IndicatorWithMonth{
		indicatorRow("100", "20", 50, "20", "50"),
	}

	assert.Equal(t, "100.00", Estimate(rows).StringFixed(2))
}

func TestEstimate_DoubleIdealTemperatureZeroesContribution(t *testing.T) {
	// avg_temp twice the ideal is a 100% relative deviation, so the
	// temperature coefficient bottoms out at zero.
	rows := []models.IndicatorWithMonth{
		indicatorRow("100", "20", 50, "40", "50"),
	}

	assert.Equal(t, "0.00", Estimate(rows).StringFixed(2))
}

func TestEstimate_DeviationBeyondIdealClampsAtZero(t *testing.T) {
	rows := []models.IndicatorWithMonth{
		indicatorRow("100", "20", 50, "65", "50"),
	}

	assert.Equal(t, "0.00", Estimate(rows).StringFixed(2))
}

func TestEstimate_HalfwayDeviationHalvesContribution(t *testing.T) {
	rows := []models.IndicatorWithMonth{
		indicatorRow("80", "20", 50, "30", "50"),
	}

	// temp coef 0.5, precip coef 1 -> 40.00
	assert.Equal(t, "40.00", Estimate(rows).StringFixed(2))
}

func TestEstimate_SumsAcrossRowsAndRounds(t *testing.T) {
	rows := []models.IndicatorWithMonth{
		indicatorRow("30", "15", 40, "15", "40"),
		indicatorRow("25", "10", 30, "15", "30"),
	}

	// 30.00 + 25*0.5 = 30.00 + 12.50 = 42.50
	assert.Equal(t, "42.50", Estimate(rows).StringFixed(2))
}

func TestEstimate_EmptyOrderIsExactZero(t *testing.T) {
	got := Estimate(nil)

	assert.True(t, got.IsZero())
	assert.Equal(t, "0.00", got.StringFixed(2))
}

func TestEstimate_Deterministic(t *testing.T) {
	rows := []models.IndicatorWithMonth{
		indicatorRow("33.33", "17.5", 42, "16.1", "39"),
		indicatorRow("12.5", "0", 0, "3", "0"),
	}

	first := Estimate(rows)
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(Estimate(rows)))
	}
}

func TestConditionCoef_ZeroIdealDecaysWithDistance(t *testing.T) {
	cases := []struct {
		actual   string
		expected string
	}{
		{"0", "1"},
		{"1", "0.5"},
		{"3", "0.25"},
	}
	for _, tc := range cases {
		got := conditionCoef(decimal.Zero, decimal.RequireFromString(tc.actual))
		assert.True(t, got.Equal(decimal.RequireFromString(tc.expected)),
			"conditionCoef(0, %s) expected %s, got %s", tc.actual, tc.expected, got)
	}
}

func TestConditionCoef_SymmetricAroundIdeal(t *testing.T) {
	ideal := decimal.RequireFromString("20")
	below := conditionCoef(ideal, decimal.RequireFromString("15"))
	above := conditionCoef(ideal, decimal.RequireFromString("25"))

	assert.True(t, below.Equal(above))
	assert.True(t, below.Equal(decimal.RequireFromString("0.75")))
}
