package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/hedge/internal/domain"
)

func TestClassify(t *testing.T) {
	bands := DefaultBands()

	tests := []struct {
		score    float64
		expected domain.Tier
	}{
		{100, domain.TierExcellent},
		{85.01, domain.TierExcellent},
		{85, domain.TierExcellent}, // boundary belongs to the upper tier
		{84.99, domain.TierStrong},
		{70, domain.TierStrong},
		{69.99, domain.TierModerate},
		{55, domain.TierModerate},
		{54.99, domain.TierVulnerable},
		{40, domain.TierVulnerable},
		{39.99, domain.TierCritical},
		{0, domain.TierCritical},
		{-5, domain.TierCritical}, // defensive, composites never go negative
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, bands.Classify(tt.score), "score %.2f", tt.score)
	}
}

// Sweep the whole score range: every value must classify, and the tier must
// never improve as the score decreases.
func TestClassifyIsMonotonic(t *testing.T) {
	bands := DefaultBands()

	prevRank := domain.TierExcellent.Rank()
	for score := 100.0; score >= 0; score -= 0.25 {
		tier := bands.Classify(score)
		rank := tier.Rank()
		assert.NotZero(t, rank, "score %.2f produced unknown tier %q", score, tier)
		assert.LessOrEqual(t, rank, prevRank, "tier improved as score dropped at %.2f", score)
		prevRank = rank
	}
}

func TestBandsValidate(t *testing.T) {
	tests := []struct {
		name    string
		bands   Bands
		wantErr bool
	}{
		{"default ladder", DefaultBands(), false},
		{"empty", Bands{}, true},
		{
			"ascending floors",
			Bands{{Floor: 0, Tier: domain.TierCritical}, {Floor: 50, Tier: domain.TierStrong}},
			true,
		},
		{
			"duplicate floors",
			Bands{{Floor: 50, Tier: domain.TierStrong}, {Floor: 50, Tier: domain.TierModerate}, {Floor: 0, Tier: domain.TierCritical}},
			true,
		},
		{
			"lowest band not at zero",
			Bands{{Floor: 50, Tier: domain.TierStrong}, {Floor: 10, Tier: domain.TierCritical}},
			true,
		},
		{
			"floor above 100",
			Bands{{Floor: 110, Tier: domain.TierExcellent}, {Floor: 0, Tier: domain.TierCritical}},
			true,
		},
		{
			"two-band ladder",
			Bands{{Floor: 60, Tier: domain.TierStrong}, {Floor: 0, Tier: domain.TierCritical}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bands.Validate()
			if tt.wantErr {
				var cfgErr *domain.ConfigError
				assert.ErrorAs(t, err, &cfgErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
