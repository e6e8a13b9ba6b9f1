package scoring

import (
	"fmt"
	"sort"

	"github.com/aristath/hedge/internal/domain"
)

// Band maps a lower score bound to a tier. A score belongs to the highest
// band whose floor it reaches, so a boundary score classifies into the
// upper tier (85.0 is excellent, not strong).
type Band struct {
	Floor float64     `json:"floor"`
	Tier  domain.Tier `json:"tier"`
}

// Bands is the full tier ladder, ordered by descending floor.
type Bands []Band

// DefaultBands returns the production tier ladder.
func DefaultBands() Bands {
	return Bands{
		{Floor: 85, Tier: domain.TierExcellent},
		{Floor: 70, Tier: domain.TierStrong},
		{Floor: 55, Tier: domain.TierModerate},
		{Floor: 40, Tier: domain.TierVulnerable},
		{Floor: 0, Tier: domain.TierCritical},
	}
}

// Validate checks that the bands are contiguous and cover [0,100] with no
// gaps: descending distinct floors, the lowest at exactly 0.
func (b Bands) Validate() error {
	if len(b) == 0 {
		return &domain.ConfigError{Field: "tier bands", Reason: "no bands defined"}
	}
	if !sort.SliceIsSorted(b, func(i, j int) bool { return b[i].Floor > b[j].Floor }) {
		return &domain.ConfigError{Field: "tier bands", Reason: "floors must be strictly descending"}
	}
	for i := 1; i < len(b); i++ {
		if b[i].Floor == b[i-1].Floor {
			return &domain.ConfigError{
				Field:  "tier bands",
				Reason: fmt.Sprintf("duplicate floor %.2f", b[i].Floor),
			}
		}
	}
	last := b[len(b)-1]
	if last.Floor != 0 {
		return &domain.ConfigError{Field: "tier bands", Reason: "lowest band must start at 0"}
	}
	if b[0].Floor > 100 {
		return &domain.ConfigError{Field: "tier bands", Reason: "highest floor exceeds 100"}
	}
	return nil
}

// Classify maps a composite score to its tier. Scores below 0 fall into the
// lowest band; Validate guarantees full coverage of [0,100].
func (b Bands) Classify(score float64) domain.Tier {
	for _, band := range b {
		if score >= band.Floor {
			return band.Tier
		}
	}
	return b[len(b)-1].Tier
}
