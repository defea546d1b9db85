// Package appraisal implements the point-in-time price and yield appraisal.
package appraisal

import (
	"fmt"

	"github.com/estatelab/wardnavi/internal/domain"
)

// Trend labels for the qualitative price direction. The label is a binary
// branch on a strict comparison, not a continuous score.
const (
	TrendRising = "rising" // forward re-estimate strictly above the base price
	TrendStable = "stable" // flat or declining, income-defensive holding
)

// Input describes the property being appraised.
type Input struct {
	Ward        domain.Ward `json:"ward"`
	Town        string      `json:"town"` // optional locality token
	FloorArea   float64     `json:"floor_area"`
	WalkMinutes int         `json:"walk_minutes"`
	VintageYear int         `json:"vintage_year"` // construction year
	Brand       bool        `json:"brand"`        // developer-brand flag
}

// Validate checks the input at the evaluation boundary.
func (in Input) Validate() error {
	if !in.Ward.Valid() {
		return fmt.Errorf("unknown ward %q", string(in.Ward))
	}
	if in.FloorArea <= 0 {
		return fmt.Errorf("floor area must be positive, got %.2f", in.FloorArea)
	}
	if in.WalkMinutes < 0 {
		return fmt.Errorf("walk minutes cannot be negative, got %d", in.WalkMinutes)
	}
	if in.VintageYear < 1900 {
		return fmt.Errorf("vintage year %d is not a plausible construction year", in.VintageYear)
	}
	return nil
}

// Result is the full appraisal output. Monetary values are in man-yen.
type Result struct {
	PriceBaseMan     float64 `json:"price_base_man"`
	PriceAtOffsetMan float64 `json:"price_at_offset_man"` // re-estimate OffsetYears forward
	OffsetYears      int     `json:"offset_years"`
	NearStationBonus float64 `json:"near_station_bonus"` // multiplier applied to the base price, 1.0 if none
	AgeEffect        float64 `json:"age_effect"`
	AnnualRentMan    float64 `json:"annual_rent_man"`
	YieldRate        float64 `json:"yield_rate"` // percent
	BrandLowMan      float64 `json:"brand_low_man"`
	BrandHighMan     float64 `json:"brand_high_man"`
	Trend            string  `json:"trend"`
}
