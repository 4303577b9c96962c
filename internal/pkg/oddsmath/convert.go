// Package oddsmath converts between American and decimal price formats.
// Pinnacle quotes American odds; the canonical model stores decimal odds.
package oddsmath

import "github.com/shopspring/decimal"

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// AmericanToDecimal converts American odds to decimal odds.
// Positive: a/100 + 1. Negative: 100/|a| + 1. Zero American odds do not
// exist; the zero value maps to decimal zero so callers can reject it.
func AmericanToDecimal(american int) decimal.Decimal {
	if american == 0 {
		return decimal.Zero
	}
	a := decimal.NewFromInt(int64(american))
	if american > 0 {
		return a.Div(hundred).Add(one)
	}
	return hundred.Div(a.Abs()).Add(one)
}

// DecimalToAmerican converts decimal odds to the nearest integer American
// price. Decimal odds at or above 2.0 map to positive prices, below 2.0 to
// negative. Returns 0 for invalid decimal odds (<= 1).
func DecimalToAmerican(dec decimal.Decimal) int {
	if dec.LessThanOrEqual(one) {
		return 0
	}
	margin := dec.Sub(one)
	if dec.GreaterThanOrEqual(decimal.NewFromInt(2)) {
		return int(margin.Mul(hundred).Round(0).IntPart())
	}
	return int(hundred.Neg().Div(margin).Round(0).IntPart())
}

// ImpliedProbability returns 1/decimal_odds, or zero for invalid odds.
func ImpliedProbability(dec decimal.Decimal) decimal.Decimal {
	if dec.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return one.DivRound(dec, 6)
}
