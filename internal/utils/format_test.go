package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundMan(t *testing.T) {
	assert.Equal(t, 270, RoundMan(270.0528))
	assert.Equal(t, 271, RoundMan(270.5))
	assert.Equal(t, -3, RoundMan(-2.7))
	assert.Equal(t, 0, RoundMan(0))
}

func TestFormatYield(t *testing.T) {
	assert.Equal(t, "4.40%", FormatYield(4.3956))
	assert.Equal(t, "5.49%", FormatYield(5.4945))
	assert.Equal(t, "0.00%", FormatYield(0))
}

func TestFormatGrowthDelta(t *testing.T) {
	assert.Equal(t, "+0.7%", FormatGrowthDelta(0.7))
	assert.Equal(t, "-1.3%", FormatGrowthDelta(-1.34))
	assert.Equal(t, "+0.0%", FormatGrowthDelta(0))
}
