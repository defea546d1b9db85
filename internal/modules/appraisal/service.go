package appraisal

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/estatelab/wardnavi/internal/config"
	"github.com/estatelab/wardnavi/internal/modules/estimator"
)

// Age-effect decay: rent erodes 0.8% per year of age but never below the
// floor, which models the rent level old-but-maintained stock settles at.
const (
	ageEffectDecay = 0.008
	ageEffectFloor = 0.65
)

// Near-station premium: walk times of 5 minutes or less earn a bonus of
// 1.5% per minute under the 6-minute mark. A policy correction layered on
// the raw estimate, applied exactly once to the base price and never to the
// offset re-estimate.
const (
	nearStationCutoff = 5
	nearStationStep   = 0.015
)

// Service runs point appraisals against the injected estimator.
type Service struct {
	est estimator.Estimator
	cfg config.ValuationConfig
	log zerolog.Logger
}

// NewService creates a new appraisal service
func NewService(est estimator.Estimator, cfg config.ValuationConfig, log zerolog.Logger) *Service {
	return &Service{
		est: est,
		cfg: cfg,
		log: log.With().Str("component", "appraisal").Logger(),
	}
}

// Appraise produces the current price estimate, a forward re-estimate, the
// derived rental yield and the brand premium band for one property.
func (s *Service) Appraise(in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("invalid appraisal input: %w", err)
	}
	if s.est == nil {
		return nil, fmt.Errorf("no estimator available")
	}

	age := s.cfg.ReferenceYear - in.VintageYear
	if age < 0 {
		age = 0
	}

	features := estimator.Features{
		FloorArea:   in.FloorArea,
		BuildingAge: float64(age),
		WalkMinutes: float64(in.WalkMinutes),
		Ward:        in.Ward,
		Town:        in.Town,
		Brand:       in.Brand,
	}

	priceBase, err := s.est.Predict(features)
	if err != nil {
		return nil, err
	}

	// Forward re-estimate: same property, age advanced by the offset. The
	// raw model output is used here; the near-station correction below
	// applies to the base price only.
	forward := features
	forward.BuildingAge = float64(age + s.cfg.OffsetYears)
	priceAtOffset, err := s.est.Predict(forward)
	if err != nil {
		return nil, err
	}

	bonus := nearStationBonus(in.WalkMinutes)
	priceBase *= bonus

	if priceBase <= 0 {
		// Guard against degenerate estimators: yield over a non-positive
		// base is undefined and must surface as an error, never a silent
		// division.
		return nil, &estimator.PredictionError{
			Reason: fmt.Sprintf("base price %.2f is not positive, yield undefined", priceBase),
		}
	}

	ageEffect := 1 - float64(age)*ageEffectDecay
	if ageEffect < ageEffectFloor {
		ageEffect = ageEffectFloor
	}

	perAreaMonthlyRent := s.cfg.BaseUnitRent * in.Ward.RentFactor() * ageEffect
	annualRentMan := perAreaMonthlyRent * in.FloorArea * 12 / 10000

	trend := TrendStable
	if priceAtOffset > priceBase {
		trend = TrendRising
	}

	result := &Result{
		PriceBaseMan:     priceBase,
		PriceAtOffsetMan: priceAtOffset,
		OffsetYears:      s.cfg.OffsetYears,
		NearStationBonus: bonus,
		AgeEffect:        ageEffect,
		AnnualRentMan:    annualRentMan,
		YieldRate:        annualRentMan / priceBase * 100,
		BrandLowMan:      priceBase * s.cfg.BrandPremiumLow,
		BrandHighMan:     priceBase * s.cfg.BrandPremiumHigh,
		Trend:            trend,
	}

	s.log.Debug().
		Str("ward", string(in.Ward)).
		Float64("price_base", result.PriceBaseMan).
		Float64("yield", result.YieldRate).
		Str("trend", result.Trend).
		Msg("Appraisal completed")

	return result, nil
}

// nearStationBonus returns the multiplier for walk times at or under the
// cutoff, 1.0 otherwise.
func nearStationBonus(walkMinutes int) float64 {
	if walkMinutes > nearStationCutoff {
		return 1.0
	}
	return 1 + float64(6-walkMinutes)*nearStationStep
}
