package scorers

import "github.com/aristath/hedge/internal/domain"

// DebtStructureConfig holds the sub-term weights and caps for the debt
// structure factor. Each sub-term is independently capped so no single
// input dominates the score.
type DebtStructureConfig struct {
	FixedWeight          float64 // points per fixed-rate pct
	FixedCap             float64 // max points from fixed-rate share
	DefaultFixedPct      float64 // fixed-rate pct assumed when unreported
	MaturityMultiplier   float64 // points per year of average maturity
	MaturityCap          float64 // max points from maturity
	DefaultMaturityYears float64 // maturity assumed when unreported
	LeverageBase         float64 // max points from low leverage
	LeverageSlope        float64 // points lost per unit of debt/assets
	UnknownLeverageScore float64 // leverage points when debt or assets unknown
}

// DefaultDebtStructureConfig returns the production constants.
func DefaultDebtStructureConfig() DebtStructureConfig {
	return DebtStructureConfig{
		FixedWeight:          0.5,
		FixedCap:             50,
		DefaultFixedPct:      50,
		MaturityMultiplier:   5,
		MaturityCap:          30,
		DefaultMaturityYears: 5,
		LeverageBase:         20,
		LeverageSlope:        40,
		UnknownLeverageScore: 10,
	}
}

// DebtStructureScorer scores resilience of the debt stack under inflation:
// fixed-rate obligations erode in real terms, long maturities defer
// refinancing at crisis rates, and low leverage limits exposure either way.
type DebtStructureScorer struct {
	cfg DebtStructureConfig
}

// NewDebtStructureScorer creates a debt structure scorer.
func NewDebtStructureScorer(cfg DebtStructureConfig) *DebtStructureScorer {
	return &DebtStructureScorer{cfg: cfg}
}

// Score returns the debt structure factor score in [0,100].
func (s *DebtStructureScorer) Score(f domain.Fundamentals, _ domain.Company) float64 {
	fixedPct := s.cfg.DefaultFixedPct
	if f.FixedRateDebtPct != nil {
		fixedPct = *f.FixedRateDebtPct
	}
	fixedScore := clamp(fixedPct*s.cfg.FixedWeight, 0, s.cfg.FixedCap)

	maturity := s.cfg.DefaultMaturityYears
	if f.AvgDebtMaturityYears != nil {
		maturity = *f.AvgDebtMaturityYears
	}
	maturityScore := clamp(maturity*s.cfg.MaturityMultiplier, 0, s.cfg.MaturityCap)

	leverageScore := s.cfg.UnknownLeverageScore
	if f.TotalAssets != nil && *f.TotalAssets > 0 && f.TotalDebt != nil {
		debtRatio := float64(*f.TotalDebt) / float64(*f.TotalAssets)
		leverageScore = s.cfg.LeverageBase - debtRatio*s.cfg.LeverageSlope
		if leverageScore < 0 {
			leverageScore = 0
		}
	}

	return clamp(fixedScore+maturityScore+leverageScore, 0, 100)
}
