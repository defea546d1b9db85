package simulation

import (
	"gonum.org/v1/gonum/floats"
)

// bestExit selects the projection with the maximal total return.
// floats.MaxIdx returns the first index on ties, which gives the stable
// "first max" semantics: the earliest year wins a tie.
func bestExit(projections []YearProjection) YearProjection {
	returns := make([]float64, len(projections))
	for i, p := range projections {
		returns[i] = p.TotalReturn
	}
	return projections[floats.MaxIdx(returns)]
}

// breakEvenYear returns the first year whose total return is strictly
// positive, or nil when no year breaks even. The absent case is an explicit
// nil, never a sentinel like -1.
func breakEvenYear(projections []YearProjection) *int {
	for _, p := range projections {
		if p.TotalReturn > 0 {
			year := p.Year
			return &year
		}
	}
	return nil
}
