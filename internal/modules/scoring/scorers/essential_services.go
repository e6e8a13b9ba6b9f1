package scorers

import "github.com/aristath/hedge/internal/domain"

// EssentialServicesConfig holds the static industry demand-inelasticity table.
type EssentialServicesConfig struct {
	Scores       map[string]float64 // industry -> score
	DefaultScore float64            // unmatched industries
}

// DefaultEssentialServicesConfig returns the production table.
func DefaultEssentialServicesConfig() EssentialServicesConfig {
	return EssentialServicesConfig{
		Scores: map[string]float64{
			"Electric Utilities":     95,
			"Water Utilities":        95,
			"Gas Utilities":          90,
			"Healthcare Facilities":  90,
			"Pharmaceuticals":        85,
			"Food Products":          85,
			"Food Retail":            80,
			"Household Products":     75,
			"Waste Management":       75,
			"Telecom":                70,
			"Defense":                70,
			"Insurance":              40,
			"Banks":                  35,
			"Asset Management":       30,
			"Software":               25,
			"Consumer Discretionary": 20,
		},
		DefaultScore: 40,
	}
}

// EssentialServicesScorer scores demand inelasticity from a static
// industry lookup - it needs no financial statement data at all.
type EssentialServicesScorer struct {
	cfg EssentialServicesConfig
}

// NewEssentialServicesScorer creates an essential services scorer.
func NewEssentialServicesScorer(cfg EssentialServicesConfig) *EssentialServicesScorer {
	return &EssentialServicesScorer{cfg: cfg}
}

// Score returns the essential services factor score in [0,100].
// Unmatched industries default to moderately inelastic.
func (s *EssentialServicesScorer) Score(_ domain.Fundamentals, c domain.Company) float64 {
	if score, ok := s.cfg.Scores[c.Industry]; ok {
		return clamp(score, 0, 100)
	}
	return clamp(s.cfg.DefaultScore, 0, 100)
}
