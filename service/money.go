package service

import (
	"math"

	"github.com/shopspring/decimal"
)

// ceilEpsilon absorbs float noise such as 3/0.3 = 10.000000000000002.
const ceilEpsilon = 1e-9

// roundTo2Decimals rounds ratios and multiples for display.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// roundCurrency rounds a dollar amount to cents, half away from zero.
func roundCurrency(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// sumCurrency adds already-rounded amounts without float drift.
func sumCurrency(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(2).InexactFloat64()
}

func subCurrency(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// safeDiv returns n/d, or 0 when d is not positive.
func safeDiv(n, d float64) float64 {
	if d <= 0 {
		return 0
	}
	return n / d
}

// maxCeilQuotient is the value ceilDiv saturates at.
const maxCeilQuotient = math.MaxInt32

// ceilDiv returns ceil(n/d), or 0 when d is not positive. Quotients too
// large for an int32 saturate at maxCeilQuotient.
func ceilDiv(n, d float64) int {
	if d <= 0 || n <= 0 {
		return 0
	}
	q := math.Ceil(n/d - ceilEpsilon)
	if math.IsNaN(q) || q > maxCeilQuotient {
		return maxCeilQuotient
	}
	return int(q)
}

func pct(rate float64) float64 {
	return rate / 100
}
