// Package simulation implements the holding-period exit-strategy simulator.
//
// Given a purchase and a set of macro assumptions, it projects resale price,
// cumulative net rental income and total return for every holding year and
// selects the best exit year. The whole run is a pure function of its inputs
// plus the injected price estimator: no shared mutable state, identical
// inputs produce bit-identical output.
package simulation

import (
	"fmt"

	"github.com/estatelab/wardnavi/internal/domain"
)

// Horizon is the fixed simulation horizon in years. The sweep always covers
// years 0..Horizon; there is no early termination.
const Horizon = 25

const (
	// OperatingExpenseRatio is the share of gross rent consumed by
	// management fees, repairs and vacancy.
	OperatingExpenseRatio = 0.20
	// CurrencyScale converts yen to man-yen for reporting.
	CurrencyScale = 10000
)

// PropertySpec describes the property under simulation. Immutable per run.
type PropertySpec struct {
	Ward        domain.Ward `json:"ward"`
	FloorArea   float64     `json:"floor_area"`   // square meters
	BuildingAge int         `json:"building_age"` // age at purchase, years
	WalkMinutes int         `json:"walk_minutes"`
}

// Validate checks the spec at the evaluation boundary.
func (p PropertySpec) Validate() error {
	if !p.Ward.Valid() {
		return fmt.Errorf("unknown ward %q", string(p.Ward))
	}
	if p.FloorArea <= 0 {
		return fmt.Errorf("floor area must be positive, got %.2f", p.FloorArea)
	}
	if p.BuildingAge < 0 {
		return fmt.Errorf("building age cannot be negative, got %d", p.BuildingAge)
	}
	if p.WalkMinutes < 0 {
		return fmt.Errorf("walk minutes cannot be negative, got %d", p.WalkMinutes)
	}
	return nil
}

// Assumptions holds the user-specified economic assumptions.
// Rates are annual percentages (1.5 means 1.5%/year).
type Assumptions struct {
	PurchasePriceMan   float64 `json:"purchase_price_man"`   // man-yen
	InitialMonthlyRent float64 `json:"initial_monthly_rent"` // yen
	InflationRate      float64 `json:"inflation_rate"`       // %/yr, [0,3]
	DepreciationRate   float64 `json:"depreciation_rate"`    // %/yr, [0,2]
}

// NetRentGrowth returns the effective annual rent escalation factor:
// inflation minus depreciation. May be negative.
func (a Assumptions) NetRentGrowth() float64 {
	return (a.InflationRate - a.DepreciationRate) / 100
}

// Validate checks the assumptions at the evaluation boundary.
func (a Assumptions) Validate() error {
	if a.PurchasePriceMan <= 0 {
		return fmt.Errorf("purchase price must be positive, got %.2f", a.PurchasePriceMan)
	}
	if a.InitialMonthlyRent <= 0 {
		return fmt.Errorf("initial monthly rent must be positive, got %.2f", a.InitialMonthlyRent)
	}
	if a.InflationRate < 0 || a.InflationRate > 3 {
		return fmt.Errorf("inflation rate must be within [0, 3]%%, got %.2f", a.InflationRate)
	}
	if a.DepreciationRate < 0 || a.DepreciationRate > 2 {
		return fmt.Errorf("depreciation rate must be within [0, 2]%%, got %.2f", a.DepreciationRate)
	}
	return nil
}

// YearProjection is one simulated holding year. All monetary values are in
// man-yen. Derived data, recomputed from scratch on every evaluation.
type YearProjection struct {
	Year           int     `json:"year"`
	PredictedPrice float64 `json:"predicted_price"`
	CumulativeRent float64 `json:"cumulative_rent"`
	TotalReturn    float64 `json:"total_return"`
}

// Result is the full output of one simulator run.
type Result struct {
	Projections []YearProjection `json:"projections"` // ordered, index = year
	BestExit    YearProjection   `json:"best_exit"`   // first max of total return
	// BreakEvenYear is the first year whose total return turns positive.
	// nil means the run never breaks even; the absence is explicit, never a
	// sentinel value.
	BreakEvenYear *int `json:"break_even_year"`
	// Fallback reports that the degraded compound-growth curve produced the
	// price series instead of the trained estimator.
	Fallback bool `json:"fallback"`
}
