package services

import (
	"yield-service/internal/models"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Estimate computes the yield value for a set of indicator rows. For each row
// the base yield is scaled by two [0,1] coefficients measuring how close the
// observed temperature and precipitation are to the month's ideal conditions;
// a severely-off factor zeroes the whole contribution. The total is rounded
// to 2 decimal places, half away from zero.
//
// Pure function over exact decimals: no I/O, no side effects, bit-identical
// output for identical input.
func Estimate(items []models.IndicatorWithMonth) decimal.Decimal {
	total := decimal.New(0, -2)
	for _, it := range items {
		tempCoef := conditionCoef(it.IdealTemp, it.AvgTemp)
		precipCoef := conditionCoef(decimal.NewFromInt(it.IdealPrecip), it.SumPrecipitation)
		total = total.Add(it.BaseYield.Mul(tempCoef).Mul(precipCoef))
	}
	return total.Round(2)
}

// conditionCoef maps an (ideal, actual) pair to [0,1]: 1 at the ideal,
// linearly down to 0 at a 100% relative deviation. A zero ideal falls back to
// 1/(actual+1) so that the coefficient still decays with distance from zero.
func conditionCoef(ideal, actual decimal.Decimal) decimal.Decimal {
	if ideal.IsZero() {
		if actual.IsZero() {
			return one
		}
		return one.Div(actual.Add(one))
	}

	coef := one.Sub(actual.Sub(ideal).Abs().Div(ideal))
	if coef.IsNegative() {
		return decimal.Zero
	}
	if coef.GreaterThan(one) {
		return one
	}
	return coef
}
