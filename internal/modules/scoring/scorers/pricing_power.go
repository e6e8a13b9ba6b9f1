package scorers

import "github.com/aristath/hedge/internal/domain"

// PricingPowerConfig holds the margin and stability constants for the
// pricing power factor.
type PricingPowerConfig struct {
	MarginMultiplier float64 // points per margin pct
	MarginCap        float64 // max points from absolute margin
	StabilityBase    float64 // max points from margin stability
	StabilityPenalty float64 // points lost per std-dev pct
	DefaultStd       float64 // std assumed when history is missing
}

// DefaultPricingPowerConfig returns the production constants.
func DefaultPricingPowerConfig() PricingPowerConfig {
	return PricingPowerConfig{
		MarginMultiplier: 1.2,
		MarginCap:        50,
		StabilityBase:    50,
		StabilityPenalty: 5,
		DefaultStd:       10,
	}
}

// PricingPowerScorer scores durable pricing power: high absolute margin and
// low margin variance each contribute half the score.
type PricingPowerScorer struct {
	cfg PricingPowerConfig
}

// NewPricingPowerScorer creates a pricing power scorer.
func NewPricingPowerScorer(cfg PricingPowerConfig) *PricingPowerScorer {
	return &PricingPowerScorer{cfg: cfg}
}

// Score returns the pricing power factor score in [0,100].
// Missing margin history defaults the std to a moderate value rather than 0,
// which would grant an artificial stability bonus.
func (s *PricingPowerScorer) Score(f domain.Fundamentals, _ domain.Company) float64 {
	margin := 0.0
	if f.GrossMargin != nil {
		margin = *f.GrossMargin
	}

	std := s.cfg.DefaultStd
	if f.GrossMargin5YrStd != nil {
		std = *f.GrossMargin5YrStd
	}

	marginScore := margin * s.cfg.MarginMultiplier
	if marginScore > s.cfg.MarginCap {
		marginScore = s.cfg.MarginCap
	}
	if marginScore < 0 {
		marginScore = 0
	}

	stabilityScore := s.cfg.StabilityBase - std*s.cfg.StabilityPenalty
	if stabilityScore < 0 {
		stabilityScore = 0
	}

	return clamp(marginScore+stabilityScore, 0, 100)
}
