package estimator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatelab/wardnavi/internal/domain"
)

func TestGrowthCurveFollowsCompoundGrowth(t *testing.T) {
	curve := NewGrowthCurve(8000, 10)

	for y := 0; y <= 25; y++ {
		got, err := curve.Predict(Features{
			FloorArea:   50,
			BuildingAge: float64(10 + y),
			WalkMinutes: 5,
			Ward:        domain.WardMinato,
		})
		require.NoError(t, err)
		assert.InDelta(t, 8000*math.Pow(1.005, float64(y)), got, 1e-9, "year %d", y)
	}
}

func TestGrowthCurveIgnoresNonAgeFeatures(t *testing.T) {
	curve := NewGrowthCurve(5000, 0)

	a, err := curve.Predict(Features{FloorArea: 30, BuildingAge: 5, WalkMinutes: 1, Ward: domain.WardMinato})
	require.NoError(t, err)
	b, err := curve.Predict(Features{FloorArea: 90, BuildingAge: 5, WalkMinutes: 15, Ward: domain.WardAdachi})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGrowthCurveRequiresPositiveBase(t *testing.T) {
	curve := NewGrowthCurve(0, 10)
	_, err := curve.Predict(Features{BuildingAge: 10})
	require.Error(t, err)

	var predErr *PredictionError
	assert.ErrorAs(t, err, &predErr)
}
