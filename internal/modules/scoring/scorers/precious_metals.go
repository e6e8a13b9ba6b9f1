package scorers

import "github.com/aristath/hedge/internal/domain"

// PreciousMetalsConfig holds the tunable constants for the precious metals factor.
type PreciousMetalsConfig struct {
	MinerIndustries   []string // direct producers
	RoyaltyIndustries []string // royalty/streaming companies
	MinerBase         float64  // base score for direct miners
	ReserveFullOz     float64  // proven reserves at which the boost maxes out
	ReserveBoostMax   float64  // maximum additive reserve boost
	RoyaltyScore      float64  // fixed score for royalty/streaming companies
	RevenueMultiplier float64  // multiplier on PM revenue pct for everyone else
}

// DefaultPreciousMetalsConfig returns the production constants.
func DefaultPreciousMetalsConfig() PreciousMetalsConfig {
	return PreciousMetalsConfig{
		MinerIndustries:   []string{"Gold Mining", "Silver Mining", "Precious Metals"},
		RoyaltyIndustries: []string{"Precious Metals Royalties"},
		MinerBase:         80,
		ReserveFullOz:     10_000_000,
		ReserveBoostMax:   20,
		RoyaltyScore:      85,
		RevenueMultiplier: 2,
	}
}

// PreciousMetalsScorer scores direct and indirect precious metals exposure.
// Direct miners score highest, scaled by proven reserves; royalty/streaming
// companies get a fixed high score; everyone else scores on PM revenue share.
type PreciousMetalsScorer struct {
	cfg PreciousMetalsConfig
}

// NewPreciousMetalsScorer creates a precious metals scorer.
func NewPreciousMetalsScorer(cfg PreciousMetalsConfig) *PreciousMetalsScorer {
	return &PreciousMetalsScorer{cfg: cfg}
}

// Score returns the precious metals factor score in [0,100].
func (s *PreciousMetalsScorer) Score(f domain.Fundamentals, c domain.Company) float64 {
	// Royalty/streaming before miners: some classifications list royalty
	// companies under both.
	if containsIndustry(s.cfg.RoyaltyIndustries, c.Industry) {
		return clamp(s.cfg.RoyaltyScore, 0, 100)
	}

	if containsIndustry(s.cfg.MinerIndustries, c.Industry) {
		score := s.cfg.MinerBase
		if f.ProvenReservesOz != nil && *f.ProvenReservesOz > 0 {
			reserveFactor := float64(*f.ProvenReservesOz) / s.cfg.ReserveFullOz
			if reserveFactor > 1 {
				reserveFactor = 1
			}
			score += reserveFactor * s.cfg.ReserveBoostMax
		}
		return clamp(score, 0, 100)
	}

	pmPct := 0.0
	if f.PreciousMetalsRevPct != nil {
		pmPct = *f.PreciousMetalsRevPct
	}
	return clamp(pmPct*s.cfg.RevenueMultiplier, 0, 100)
}
