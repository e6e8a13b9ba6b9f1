package scorers

import "github.com/aristath/hedge/internal/domain"

// Config aggregates the per-factor configuration. It is injected rather
// than read from module-level constants so backtests can swap tables and
// constants per run.
type Config struct {
	HardAssets        HardAssetsConfig
	PreciousMetals    PreciousMetalsConfig
	Commodities       CommoditiesConfig
	ForeignRevenue    ForeignRevenueConfig
	PricingPower      PricingPowerConfig
	DebtStructure     DebtStructureConfig
	EssentialServices EssentialServicesConfig
}

// DefaultConfig returns the production configuration for all seven factors.
func DefaultConfig() Config {
	return Config{
		HardAssets:        DefaultHardAssetsConfig(),
		PreciousMetals:    DefaultPreciousMetalsConfig(),
		Commodities:       DefaultCommoditiesConfig(),
		ForeignRevenue:    DefaultForeignRevenueConfig(),
		PricingPower:      DefaultPricingPowerConfig(),
		DebtStructure:     DefaultDebtStructureConfig(),
		EssentialServices: DefaultEssentialServicesConfig(),
	}
}

// FactorScorer computes all seven factor scores for one company.
// Every scorer is a total function: missing fundamentals degrade to
// documented defaults, they never produce an error.
type FactorScorer struct {
	hardAssets        *HardAssetsScorer
	preciousMetals    *PreciousMetalsScorer
	commodities       *CommoditiesScorer
	foreignRevenue    *ForeignRevenueScorer
	pricingPower      *PricingPowerScorer
	debtStructure     *DebtStructureScorer
	essentialServices *EssentialServicesScorer
}

// NewFactorScorer creates a factor scorer from injected configuration.
func NewFactorScorer(cfg Config) *FactorScorer {
	return &FactorScorer{
		hardAssets:        NewHardAssetsScorer(cfg.HardAssets),
		preciousMetals:    NewPreciousMetalsScorer(cfg.PreciousMetals),
		commodities:       NewCommoditiesScorer(cfg.Commodities),
		foreignRevenue:    NewForeignRevenueScorer(cfg.ForeignRevenue),
		pricingPower:      NewPricingPowerScorer(cfg.PricingPower),
		debtStructure:     NewDebtStructureScorer(cfg.DebtStructure),
		essentialServices: NewEssentialServicesScorer(cfg.EssentialServices),
	}
}

// ScoreAll computes the full factor score set. Each value is in [0,100].
func (s *FactorScorer) ScoreAll(f domain.Fundamentals, c domain.Company) domain.FactorScores {
	return domain.FactorScores{
		HardAssets:        s.hardAssets.Score(f, c),
		PreciousMetals:    s.preciousMetals.Score(f, c),
		Commodities:       s.commodities.Score(f, c),
		ForeignRevenue:    s.foreignRevenue.Score(f, c),
		PricingPower:      s.pricingPower.Score(f, c),
		DebtStructure:     s.debtStructure.Score(f, c),
		EssentialServices: s.essentialServices.Score(f, c),
	}
}
