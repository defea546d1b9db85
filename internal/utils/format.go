package utils

import (
	"fmt"
	"math"
)

// RoundMan rounds a man-yen amount to the nearest integer for display.
// Monetary values are reported in the major unit only.
func RoundMan(v float64) int {
	return int(math.Round(v))
}

// FormatYield renders a yield percentage with 2 decimals.
func FormatYield(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatGrowthDelta renders a growth-rate delta with 1 decimal and an
// explicit sign.
func FormatGrowthDelta(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}
