package scorers

import "github.com/aristath/hedge/internal/domain"

// ForeignRevenueConfig holds the piecewise-linear curve constants for the
// foreign revenue factor.
type ForeignRevenueConfig struct {
	LowSlope   float64 // points per pct below the mid cutoff
	MidCutoff  float64 // pct where the curve flattens
	MidBase    float64 // score at the mid cutoff
	MidSlope   float64 // points per pct between mid and high cutoffs
	HighCutoff float64 // pct above which the score plateaus
	HighScore  float64 // plateau score
}

// DefaultForeignRevenueConfig returns the production curve.
func DefaultForeignRevenueConfig() ForeignRevenueConfig {
	return ForeignRevenueConfig{
		LowSlope:   1.4,
		MidCutoff:  50,
		MidBase:    70,
		MidSlope:   1.25,
		HighCutoff: 70,
		HighScore:  95,
	}
}

// ForeignRevenueScorer scores international revenue exposure. The curve is
// steep below the mid cutoff and flattens above the high cutoff, rewarding
// but not over-rewarding extreme internationalization.
type ForeignRevenueScorer struct {
	cfg ForeignRevenueConfig
}

// NewForeignRevenueScorer creates a foreign revenue scorer.
func NewForeignRevenueScorer(cfg ForeignRevenueConfig) *ForeignRevenueScorer {
	return &ForeignRevenueScorer{cfg: cfg}
}

// Score returns the foreign revenue factor score in [0,100].
// Missing foreign revenue pct reads as 0 (fully domestic).
func (s *ForeignRevenueScorer) Score(f domain.Fundamentals, _ domain.Company) float64 {
	foreignPct := 0.0
	if f.ForeignRevenuePct != nil {
		foreignPct = *f.ForeignRevenuePct
	}
	// Reported percentages above 100 are data noise.
	foreignPct = clamp(foreignPct, 0, 100)

	switch {
	case foreignPct >= s.cfg.HighCutoff:
		return clamp(s.cfg.HighScore, 0, 100)
	case foreignPct >= s.cfg.MidCutoff:
		return clamp(s.cfg.MidBase+(foreignPct-s.cfg.MidCutoff)*s.cfg.MidSlope, 0, 100)
	default:
		return clamp(foreignPct*s.cfg.LowSlope, 0, 100)
	}
}
