package energy

import "github.com/shopspring/decimal"

// Round2 rounds half away from zero to two decimal places.
func Round2(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}
