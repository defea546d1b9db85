package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectionsFromReturns(returns ...float64) []YearProjection {
	out := make([]YearProjection, len(returns))
	for i, r := range returns {
		out[i] = YearProjection{Year: i, TotalReturn: r}
	}
	return out
}

func TestBestExitFirstOccurrenceOnTie(t *testing.T) {
	tests := []struct {
		name     string
		returns  []float64
		wantYear int
	}{
		{name: "single max", returns: []float64{-10, 5, 30, 20}, wantYear: 2},
		{name: "tied max picks first", returns: []float64{1, 40, 40, 40}, wantYear: 1},
		{name: "all equal picks year 0", returns: []float64{7, 7, 7}, wantYear: 0},
		{name: "all negative still has a max", returns: []float64{-30, -5, -20}, wantYear: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best := bestExit(projectionsFromReturns(tt.returns...))
			assert.Equal(t, tt.wantYear, best.Year)
		})
	}
}

func TestBreakEvenYearFirstPositive(t *testing.T) {
	t.Run("first positive year reported", func(t *testing.T) {
		// Non-monotonic on purpose: only the minimality of the reported year
		// is guaranteed, not monotonicity of the series.
		year := breakEvenYear(projectionsFromReturns(-100, -20, 15, -5, 40))
		require.NotNil(t, year)
		assert.Equal(t, 2, *year)
	})

	t.Run("zero is not break-even", func(t *testing.T) {
		year := breakEvenYear(projectionsFromReturns(-10, 0, 3))
		require.NotNil(t, year)
		assert.Equal(t, 2, *year, "break-even requires strictly positive return")
	})

	t.Run("never positive is nil", func(t *testing.T) {
		assert.Nil(t, breakEvenYear(projectionsFromReturns(-10, -5, 0)))
	})
}
