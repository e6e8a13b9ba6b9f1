package scorers

import "github.com/aristath/hedge/internal/domain"

// HardAssetsConfig holds the tunable constants for the hard assets factor.
// All values are configuration so backtests can re-weight without code changes.
type HardAssetsConfig struct {
	NeutralScore            float64  // score when total assets are unknown
	RealEstateBoost         float64  // additive boost for real-estate-heavy industries
	CommodityInventoryBoost float64  // additive boost for commodity-inventory-heavy industries
	RealEstateIndustries    []string // exact industry matches
	CommodityInventoryMarkers []string // substring markers (e.g. "Mining")
}

// DefaultHardAssetsConfig returns the production constants.
func DefaultHardAssetsConfig() HardAssetsConfig {
	return HardAssetsConfig{
		NeutralScore:            50,
		RealEstateBoost:         10,
		CommodityInventoryBoost: 5,
		RealEstateIndustries:    []string{"REITs", "Real Estate"},
		CommodityInventoryMarkers: []string{"Mining"},
	}
}

// HardAssetsScorer scores tangible asset backing: the tangible/total asset
// ratio scaled to 0-100, boosted for industries whose balance sheets carry
// real estate or commodity inventory.
type HardAssetsScorer struct {
	cfg HardAssetsConfig
}

// NewHardAssetsScorer creates a hard assets scorer.
func NewHardAssetsScorer(cfg HardAssetsConfig) *HardAssetsScorer {
	return &HardAssetsScorer{cfg: cfg}
}

// Score returns the hard assets factor score in [0,100].
// Unknown total assets yield the neutral prior - missing data reflects
// uncertainty, it is not a penalty.
func (s *HardAssetsScorer) Score(f domain.Fundamentals, c domain.Company) float64 {
	if f.TotalAssets == nil || *f.TotalAssets == 0 {
		return s.cfg.NeutralScore
	}

	tangible := 0.0
	if f.TangibleAssets != nil {
		tangible = float64(*f.TangibleAssets)
	}

	score := tangible / float64(*f.TotalAssets) * 100

	if containsIndustry(s.cfg.RealEstateIndustries, c.Industry) {
		score += s.cfg.RealEstateBoost
	}
	if matchesMarker(s.cfg.CommodityInventoryMarkers, c.Industry) {
		score += s.cfg.CommodityInventoryBoost
	}

	return clamp(score, 0, 100)
}
