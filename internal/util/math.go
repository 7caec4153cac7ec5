package util

import (
	"math"
)

// RoundToPrecision rounds a float64 to a specific number of decimal places
func RoundToPrecision(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// Round2 rounds a float64 to 2 decimal places, the precision used for
// all currency amounts and percentages
func Round2(val float64) float64 {
	return RoundToPrecision(val, 2)
}

// Abs returns the absolute value of x
func Abs(x float64) float64 {
	return math.Abs(x)
}
