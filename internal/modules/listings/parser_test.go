package listings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{name: "price with unit and separator", input: "8,480万円", want: 8480, ok: true},
		{name: "plain number", input: "6200", want: 6200, ok: true},
		{name: "area with decimal", input: "55.2㎡", want: 55.2, ok: true},
		{name: "full-width digits", input: "５８００万円", want: 5800, ok: true},
		{name: "leading text", input: "価格: 7,200万円", want: 7200, ok: true},
		{name: "no digits", input: "相談", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestExtractAge(t *testing.T) {
	const referenceYear = 2026

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "year with month", input: "2015年3月", want: 11},
		{name: "built prefix", input: "築1998年", want: 28},
		{name: "plain year", input: "2020", want: 6},
		{name: "no year token falls back", input: "築浅", want: FallbackAge},
		{name: "empty falls back", input: "", want: FallbackAge},
		{name: "future year clamps to zero", input: "2030年", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAge(tt.input, referenceYear))
		})
	}
}

func TestExtractWalkMinutes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "station line and walk", input: "銀座線 青山一丁目駅 徒歩5分", want: 5},
		{name: "walk only", input: "徒歩12分", want: 12},
		{name: "full-width minutes", input: "徒歩８分", want: 8},
		{name: "bus access falls back", input: "バス15分", want: FallbackWalkMinutes},
		{name: "empty falls back", input: "", want: FallbackWalkMinutes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractWalkMinutes(tt.input))
		})
	}
}
