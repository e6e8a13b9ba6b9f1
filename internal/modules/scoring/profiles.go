// Package scoring implements the survival scoring engine: factor scoring,
// scenario weighting, tier classification, snapshot building and batch runs.
package scoring

import (
	"math"

	"github.com/aristath/hedge/internal/domain"
)

// weightTolerance is the allowed deviation of a profile's weight sum from 1.0.
const weightTolerance = 1e-6

// Profile is a named weight vector over the seven factors. Severer scenarios
// shift weight toward directly-convertible real assets (hard assets, precious
// metals, commodities) and away from operational factors.
type Profile struct {
	Name              string  `json:"name"`
	HardAssets        float64 `json:"hard_assets"`
	PreciousMetals    float64 `json:"precious_metals"`
	Commodities       float64 `json:"commodities"`
	ForeignRevenue    float64 `json:"foreign_revenue"`
	PricingPower      float64 `json:"pricing_power"`
	DebtStructure     float64 `json:"debt_structure"`
	EssentialServices float64 `json:"essential_services"`
}

// CurrentProfile is the default weighting used for the headline score.
func CurrentProfile() Profile {
	return Profile{
		Name:              string(domain.ScenarioCurrent),
		HardAssets:        0.25,
		PreciousMetals:    0.15,
		Commodities:       0.15,
		ForeignRevenue:    0.15,
		PricingPower:      0.15,
		DebtStructure:     0.10,
		EssentialServices: 0.05,
	}
}

// GradualProfile weights a 15-20% decline playing out over years.
func GradualProfile() Profile {
	p := CurrentProfile()
	p.Name = string(domain.ScenarioGradual)
	return p
}

// RapidProfile weights a 30-40% decline within 12-18 months.
func RapidProfile() Profile {
	return Profile{
		Name:              string(domain.ScenarioRapid),
		HardAssets:        0.30,
		PreciousMetals:    0.25,
		Commodities:       0.20,
		ForeignRevenue:    0.10,
		PricingPower:      0.10,
		DebtStructure:     0.05,
		EssentialServices: 0.00,
	}
}

// HyperProfile weights a hyperinflation event. Debt structure and essential
// services are zeroed out entirely: in a currency crisis only
// directly-convertible real assets matter.
func HyperProfile() Profile {
	return Profile{
		Name:              string(domain.ScenarioHyper),
		HardAssets:        0.35,
		PreciousMetals:    0.35,
		Commodities:       0.20,
		ForeignRevenue:    0.05,
		PricingPower:      0.05,
		DebtStructure:     0.00,
		EssentialServices: 0.00,
	}
}

// Weight returns the profile's weight for a factor key.
func (p Profile) Weight(key domain.FactorKey) float64 {
	switch key {
	case domain.FactorHardAssets:
		return p.HardAssets
	case domain.FactorPreciousMetals:
		return p.PreciousMetals
	case domain.FactorCommodities:
		return p.Commodities
	case domain.FactorForeignRevenue:
		return p.ForeignRevenue
	case domain.FactorPricingPower:
		return p.PricingPower
	case domain.FactorDebtStructure:
		return p.DebtStructure
	case domain.FactorEssentialServices:
		return p.EssentialServices
	}
	return 0
}

// Validate checks the profile invariants: non-negative weights summing to
// 1.0 within tolerance. A malformed profile would silently corrupt every
// snapshot, so callers must validate before scoring anything.
func (p Profile) Validate() error {
	sum := 0.0
	for _, key := range domain.FactorKeys() {
		w := p.Weight(key)
		if w < 0 {
			return &domain.ConfigError{
				Field:  "profile " + p.Name,
				Reason: "weight for " + string(key) + " is negative",
			}
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return &domain.ConfigError{
			Field:  "profile " + p.Name,
			Reason: "weights do not sum to 1.0",
		}
	}
	return nil
}

// Composite computes the weighted dot product of the factor scores under
// this profile. Given valid inputs the result is always in [0,100].
func (p Profile) Composite(factors domain.FactorScores) float64 {
	total := 0.0
	for _, key := range domain.FactorKeys() {
		total += factors.Get(key) * p.Weight(key)
	}
	return round2(total)
}

// round2 rounds to two decimal places, the precision snapshots persist.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
