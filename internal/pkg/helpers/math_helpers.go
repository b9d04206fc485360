package helpers

import (
	"math"
	"strconv"
)

// RoundHalfEven rounds v to places decimals. The exact binary value of v is
// rounded, and exact ties go to the even digit, so 2.675 (stored as
// 2.67499...) becomes 2.67 and 0.125 becomes 0.12.
func RoundHalfEven(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	// strconv formats from the exact decimal expansion of v
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}
