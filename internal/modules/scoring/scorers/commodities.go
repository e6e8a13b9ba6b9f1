package scorers

import "github.com/aristath/hedge/internal/domain"

// CommoditiesConfig holds the industry base-rate table and revenue
// adjustment constants for the commodities factor.
type CommoditiesConfig struct {
	BaseRates   map[string]float64 // industry -> base score
	DefaultBase float64            // base for unlisted industries
	PivotPct    float64            // commodity revenue pct treated as neutral
	Slope       float64            // points per pct away from the pivot
}

// DefaultCommoditiesConfig returns the production base-rate table.
func DefaultCommoditiesConfig() CommoditiesConfig {
	return CommoditiesConfig{
		BaseRates: map[string]float64{
			"Oil & Gas E&P":         85,
			"Oil & Gas Integrated":  80,
			"Copper Mining":         85,
			"Diversified Mining":    75,
			"Agricultural Products": 70,
			"Steel":                 65,
			"Chemicals":             55,
		},
		DefaultBase: 30,
		PivotPct:    50,
		Slope:       0.3,
	}
}

// CommoditiesScorer scores commodity exposure from an industry base rate
// adjusted by actual commodity revenue share.
type CommoditiesScorer struct {
	cfg CommoditiesConfig
}

// NewCommoditiesScorer creates a commodities scorer.
func NewCommoditiesScorer(cfg CommoditiesConfig) *CommoditiesScorer {
	return &CommoditiesScorer{cfg: cfg}
}

// Score returns the commodities factor score in [0,100].
// Missing commodity revenue pct reads as 0, which pulls the base rate down
// by the full pivot adjustment - producers without segment disclosure are
// treated conservatively.
func (s *CommoditiesScorer) Score(f domain.Fundamentals, c domain.Company) float64 {
	base, ok := s.cfg.BaseRates[c.Industry]
	if !ok {
		base = s.cfg.DefaultBase
	}

	commodityPct := 0.0
	if f.CommodityRevenuePct != nil {
		commodityPct = *f.CommodityRevenuePct
	}

	adjustment := (commodityPct - s.cfg.PivotPct) * s.cfg.Slope
	return clamp(base+adjustment, 0, 100)
}
