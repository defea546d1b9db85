package estimator

import "math"

// GrowthCurve is the degraded-mode estimator used when no trained artifact
// is available. It projects a fixed compound-growth curve from the purchase
// price instead of a market prediction:
//
//	price(age) = BasePrice * Rate^(age - BaseAge)
//
// It is an explicit fallback path, selected by the caller, and is never
// blended with real model predictions.
type GrowthCurve struct {
	BasePrice float64 // purchase price, man-yen
	BaseAge   float64 // building age at purchase
	Rate      float64 // annual growth factor
}

// DefaultGrowthRate is the annual factor of the fallback curve.
const DefaultGrowthRate = 1.005

// NewGrowthCurve builds a fallback estimator anchored at the purchase price.
func NewGrowthCurve(basePrice, baseAge float64) *GrowthCurve {
	return &GrowthCurve{BasePrice: basePrice, BaseAge: baseAge, Rate: DefaultGrowthRate}
}

// Predict implements Estimator. Only the age feature moves the curve; area,
// walk and ward are held fixed by construction of the fallback.
func (g *GrowthCurve) Predict(f Features) (float64, error) {
	if g.BasePrice <= 0 {
		return 0, &PredictionError{Reason: "fallback curve has no positive base price"}
	}
	years := f.BuildingAge - g.BaseAge
	return g.BasePrice * math.Pow(g.Rate, years), nil
}
