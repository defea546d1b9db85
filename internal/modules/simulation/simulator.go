package simulation

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/estatelab/wardnavi/internal/modules/estimator"
)

// Simulator runs the holding-period sweep against an injected estimator.
type Simulator struct {
	log zerolog.Logger
}

// NewSimulator creates a new simulator
func NewSimulator(log zerolog.Logger) *Simulator {
	return &Simulator{
		log: log.With().Str("component", "simulator").Logger(),
	}
}

// Run simulates years 0..Horizon for the property and assumptions.
//
// Per year y:
//   - the estimator is invoked with area/walk/ward held fixed and the
//     building age advanced to purchase age + y
//   - annual net rent follows the exponential inflation-offset model, scaled
//     by the operating expense ratio and converted to man-yen
//   - year 0 is the acquisition instant and contributes no rent
//   - total return = predicted price + cumulative rent - purchase price
//
// The rent formula stays exponential even when net growth is negative; it is
// never clamped to zero.
func (s *Simulator) Run(spec PropertySpec, assumptions Assumptions, est estimator.Estimator) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid property spec: %w", err)
	}
	if err := assumptions.Validate(); err != nil {
		return nil, fmt.Errorf("invalid assumptions: %w", err)
	}
	if est == nil {
		return nil, fmt.Errorf("no estimator provided")
	}

	netGrowth := assumptions.NetRentGrowth()
	projections := make([]YearProjection, 0, Horizon+1)
	cumulativeRent := 0.0

	for y := 0; y <= Horizon; y++ {
		futureAge := float64(spec.BuildingAge + y)

		predictedPrice, err := est.Predict(estimator.Features{
			FloorArea:   spec.FloorArea,
			BuildingAge: futureAge,
			WalkMinutes: float64(spec.WalkMinutes),
			Ward:        spec.Ward,
		})
		if err != nil {
			return nil, fmt.Errorf("year %d: %w", y, err)
		}

		// Year 0 is the acquisition instant, no rental income yet.
		if y > 0 {
			annualRent := assumptions.InitialMonthlyRent *
				math.Pow(1+netGrowth, float64(y)) * 12 *
				(1 - OperatingExpenseRatio) / CurrencyScale
			cumulativeRent += annualRent
		}

		projections = append(projections, YearProjection{
			Year:           y,
			PredictedPrice: predictedPrice,
			CumulativeRent: cumulativeRent,
			TotalReturn:    predictedPrice + cumulativeRent - assumptions.PurchasePriceMan,
		})
	}

	_, fallback := est.(*estimator.GrowthCurve)

	result := &Result{
		Projections:   projections,
		BestExit:      bestExit(projections),
		BreakEvenYear: breakEvenYear(projections),
		Fallback:      fallback,
	}

	s.log.Debug().
		Str("ward", string(spec.Ward)).
		Int("best_exit_year", result.BestExit.Year).
		Bool("fallback", fallback).
		Msg("Holding-period simulation completed")

	return result, nil
}
