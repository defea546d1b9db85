package simulation

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatelab/wardnavi/internal/domain"
	"github.com/estatelab/wardnavi/internal/modules/estimator"
)

// stubEstimator lets tests inject an arbitrary deterministic price function.
type stubEstimator struct {
	fn func(estimator.Features) (float64, error)
}

func (s *stubEstimator) Predict(f estimator.Features) (float64, error) {
	return s.fn(f)
}

func constantPrice(price float64) *stubEstimator {
	return &stubEstimator{fn: func(estimator.Features) (float64, error) {
		return price, nil
	}}
}

func testSpec() PropertySpec {
	return PropertySpec{Ward: domain.WardMinato, FloorArea: 50, BuildingAge: 10, WalkMinutes: 5}
}

func testAssumptions() Assumptions {
	return Assumptions{
		PurchasePriceMan:   8000,
		InitialMonthlyRent: 280000,
		InflationRate:      1.5,
		DepreciationRate:   0.8,
	}
}

func newTestSimulator() *Simulator {
	return NewSimulator(zerolog.New(nil).Level(zerolog.Disabled))
}

func TestRunProducesFullHorizon(t *testing.T) {
	sim := newTestSimulator()

	result, err := sim.Run(testSpec(), testAssumptions(), constantPrice(8000))
	require.NoError(t, err)

	require.Len(t, result.Projections, Horizon+1)
	for i, p := range result.Projections {
		assert.Equal(t, i, p.Year, "years must be strictly increasing from 0")
	}
	assert.Equal(t, 0.0, result.Projections[0].CumulativeRent, "year 0 is the acquisition instant")
}

func TestRunReferenceScenario(t *testing.T) {
	// purchase 8000 man-yen, rent 280,000 yen, inflation 1.5%, depreciation
	// 0.8% -> net rent growth 0.7%/yr.
	sim := newTestSimulator()

	result, err := sim.Run(testSpec(), testAssumptions(), constantPrice(8000))
	require.NoError(t, err)

	wantYear1 := 280000 * 1.007 * 12 * 0.8 / 10000 // 270.0528 man-yen
	assert.InDelta(t, 270.05, wantYear1, 0.01)
	assert.InDelta(t, wantYear1, result.Projections[1].CumulativeRent, 1e-9)

	// With a flat price, total return equals cumulative rent.
	assert.InDelta(t, wantYear1, result.Projections[1].TotalReturn, 1e-9)
}

func TestRunIsIdempotent(t *testing.T) {
	sim := newTestSimulator()
	est := constantPrice(7500)

	first, err := sim.Run(testSpec(), testAssumptions(), est)
	require.NoError(t, err)
	second, err := sim.Run(testSpec(), testAssumptions(), est)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must yield bit-identical output")
}

func TestRunAdvancesAgeOnly(t *testing.T) {
	sim := newTestSimulator()
	spec := testSpec()

	var seen []estimator.Features
	est := &stubEstimator{fn: func(f estimator.Features) (float64, error) {
		seen = append(seen, f)
		return 8000, nil
	}}

	_, err := sim.Run(spec, testAssumptions(), est)
	require.NoError(t, err)

	require.Len(t, seen, Horizon+1)
	for y, f := range seen {
		assert.Equal(t, float64(spec.BuildingAge+y), f.BuildingAge, "age must advance with the year")
		assert.Equal(t, spec.FloorArea, f.FloorArea, "area held fixed")
		assert.Equal(t, float64(spec.WalkMinutes), f.WalkMinutes, "walk held fixed")
		assert.Equal(t, spec.Ward, f.Ward, "ward held fixed")
	}
}

func TestRunNegativeNetGrowthStaysExponential(t *testing.T) {
	sim := newTestSimulator()
	assumptions := Assumptions{
		PurchasePriceMan:   8000,
		InitialMonthlyRent: 280000,
		InflationRate:      0,
		DepreciationRate:   2, // net growth -2%/yr
	}

	result, err := sim.Run(testSpec(), assumptions, constantPrice(8000))
	require.NoError(t, err)

	rentYear := func(y int) float64 {
		return 280000 * math.Pow(0.98, float64(y)) * 12 * 0.8 / 10000
	}
	assert.InDelta(t, rentYear(1), result.Projections[1].CumulativeRent, 1e-9)
	assert.InDelta(t, rentYear(1)+rentYear(2), result.Projections[2].CumulativeRent, 1e-9)
	assert.Greater(t, result.Projections[2].CumulativeRent, result.Projections[1].CumulativeRent,
		"cumulative rent keeps growing even with negative net growth")
}

func TestRunBestExitFirstMaxOnTie(t *testing.T) {
	sim := newTestSimulator()
	assumptions := testAssumptions()
	spec := testSpec()

	// Price falls by exactly the rent collected so far, so every year has an
	// identical total return. The stable argmax must pick year 0.
	netGrowth := assumptions.NetRentGrowth()
	est := &stubEstimator{fn: func(f estimator.Features) (float64, error) {
		y := int(f.BuildingAge) - spec.BuildingAge
		cumulative := 0.0
		for i := 1; i <= y; i++ {
			cumulative += assumptions.InitialMonthlyRent *
				math.Pow(1+netGrowth, float64(i)) * 12 * 0.8 / 10000
		}
		return assumptions.PurchasePriceMan - cumulative, nil
	}}

	result, err := sim.Run(spec, assumptions, est)
	require.NoError(t, err)

	// Independent first-max scan over the produced series: the reported exit
	// year must be the earliest year achieving the maximum.
	wantYear, wantMax := 0, result.Projections[0].TotalReturn
	for _, p := range result.Projections[1:] {
		if p.TotalReturn > wantMax {
			wantYear, wantMax = p.Year, p.TotalReturn
		}
	}
	assert.Equal(t, wantYear, result.BestExit.Year, "ties break to the earliest year")
	assert.InDelta(t, 0, result.BestExit.TotalReturn, 1e-6)
}

func TestRunBestExitIsMaximal(t *testing.T) {
	sim := newTestSimulator()

	result, err := sim.Run(testSpec(), testAssumptions(), constantPrice(8200))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.BestExit.Year, 0)
	assert.LessOrEqual(t, result.BestExit.Year, Horizon)
	for _, p := range result.Projections {
		assert.GreaterOrEqual(t, result.BestExit.TotalReturn, p.TotalReturn)
	}
}

func TestRunBreakEven(t *testing.T) {
	sim := newTestSimulator()

	t.Run("flat price breaks even in year 1", func(t *testing.T) {
		result, err := sim.Run(testSpec(), testAssumptions(), constantPrice(8000))
		require.NoError(t, err)
		require.NotNil(t, result.BreakEvenYear)
		assert.Equal(t, 1, *result.BreakEvenYear)
		assert.Greater(t, result.Projections[*result.BreakEvenYear].TotalReturn, 0.0)
	})

	t.Run("deep loss never breaks even", func(t *testing.T) {
		result, err := sim.Run(testSpec(), testAssumptions(), constantPrice(1))
		require.NoError(t, err)
		assert.Nil(t, result.BreakEvenYear, "absence is an explicit nil, not a sentinel")
	})
}

func TestRunWithFallbackCurve(t *testing.T) {
	sim := newTestSimulator()
	spec := testSpec()
	assumptions := testAssumptions()

	curve := estimator.NewGrowthCurve(assumptions.PurchasePriceMan, float64(spec.BuildingAge))
	result, err := sim.Run(spec, assumptions, curve)
	require.NoError(t, err)

	assert.True(t, result.Fallback)
	for y, p := range result.Projections {
		assert.InDelta(t, 8000*math.Pow(1.005, float64(y)), p.PredictedPrice, 1e-9, "year %d", y)
	}
}

func TestRunPredictionFailureAborts(t *testing.T) {
	sim := newTestSimulator()
	est := &stubEstimator{fn: func(f estimator.Features) (float64, error) {
		if f.BuildingAge >= 20 {
			return 0, &estimator.PredictionError{Reason: "model blew up"}
		}
		return 8000, nil
	}}

	_, err := sim.Run(testSpec(), testAssumptions(), est)
	require.Error(t, err, "a failing prediction aborts the whole evaluation, no partial output")

	var predErr *estimator.PredictionError
	assert.ErrorAs(t, err, &predErr)
}

func TestRunValidation(t *testing.T) {
	sim := newTestSimulator()
	est := constantPrice(8000)

	tests := []struct {
		name        string
		spec        PropertySpec
		assumptions Assumptions
	}{
		{
			name:        "unknown ward",
			spec:        PropertySpec{Ward: "yokohama", FloorArea: 50, BuildingAge: 10, WalkMinutes: 5},
			assumptions: testAssumptions(),
		},
		{
			name:        "non-positive floor area",
			spec:        PropertySpec{Ward: domain.WardMinato, FloorArea: 0, BuildingAge: 10, WalkMinutes: 5},
			assumptions: testAssumptions(),
		},
		{
			name: "non-positive purchase price",
			spec: testSpec(),
			assumptions: Assumptions{
				PurchasePriceMan: 0, InitialMonthlyRent: 280000, InflationRate: 1.5, DepreciationRate: 0.8,
			},
		},
		{
			name: "inflation out of range",
			spec: testSpec(),
			assumptions: Assumptions{
				PurchasePriceMan: 8000, InitialMonthlyRent: 280000, InflationRate: 5, DepreciationRate: 0.8,
			},
		},
		{
			name: "depreciation out of range",
			spec: testSpec(),
			assumptions: Assumptions{
				PurchasePriceMan: 8000, InitialMonthlyRent: 280000, InflationRate: 1.5, DepreciationRate: 2.5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(tt.spec, tt.assumptions, est)
			assert.Error(t, err)
		})
	}
}
