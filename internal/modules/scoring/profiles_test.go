package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/hedge/internal/domain"
)

func TestBuiltinProfilesAreValid(t *testing.T) {
	for _, p := range []Profile{CurrentProfile(), GradualProfile(), RapidProfile(), HyperProfile()} {
		assert.NoError(t, p.Validate(), "profile %s", p.Name)
	}
}

func TestProfileValidate(t *testing.T) {
	t.Run("weights must sum to one", func(t *testing.T) {
		p := CurrentProfile()
		p.HardAssets = 0.5

		err := p.Validate()
		require.Error(t, err)
		var cfgErr *domain.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("negative weight rejected", func(t *testing.T) {
		p := CurrentProfile()
		p.HardAssets = -0.05
		p.PreciousMetals = 0.45

		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative")
	})

	t.Run("tiny float drift tolerated", func(t *testing.T) {
		p := CurrentProfile()
		p.HardAssets += 1e-9

		assert.NoError(t, p.Validate())
	})
}

func TestProfileComposite(t *testing.T) {
	t.Run("uniform scores pass through", func(t *testing.T) {
		factors := domain.FactorScores{
			HardAssets:        100,
			PreciousMetals:    100,
			Commodities:       100,
			ForeignRevenue:    100,
			PricingPower:      100,
			DebtStructure:     100,
			EssentialServices: 100,
		}
		for _, p := range []Profile{CurrentProfile(), RapidProfile(), HyperProfile()} {
			assert.InDelta(t, 100, p.Composite(factors), 1e-9, "profile %s", p.Name)
		}
	})

	t.Run("zero scores compose to zero", func(t *testing.T) {
		assert.Zero(t, CurrentProfile().Composite(domain.FactorScores{}))
	})

	t.Run("weighted dot product", func(t *testing.T) {
		factors := domain.FactorScores{
			HardAssets:        85.714285,
			PreciousMetals:    0,
			Commodities:       97,
			ForeignRevenue:    28,
			PricingPower:      82,
			DebtStructure:     84.285714,
			EssentialServices: 40,
		}
		assert.InDelta(t, 62.91, CurrentProfile().Composite(factors), 0.01)
	})

	t.Run("hyper ignores zero-weighted factors", func(t *testing.T) {
		weak := domain.FactorScores{DebtStructure: 100, EssentialServices: 100}
		assert.Zero(t, HyperProfile().Composite(weak))
	})

	t.Run("rapid ignores essential services", func(t *testing.T) {
		factors := domain.FactorScores{EssentialServices: 100}
		assert.Zero(t, RapidProfile().Composite(factors))
		assert.InDelta(t, 5, CurrentProfile().Composite(factors), 1e-9)
	})
}

// Severer scenarios shift weight toward directly-convertible real assets, so
// a gold miner profile must rank hyper >= rapid >= current.
func TestScenarioOrderingForHardAssetHeavyCompany(t *testing.T) {
	miner := domain.FactorScores{
		HardAssets:        90,
		PreciousMetals:    100,
		Commodities:       80,
		ForeignRevenue:    40,
		PricingPower:      30,
		DebtStructure:     50,
		EssentialServices: 20,
	}

	current := CurrentProfile().Composite(miner)
	rapid := RapidProfile().Composite(miner)
	hyper := HyperProfile().Composite(miner)

	assert.Greater(t, rapid, current)
	assert.Greater(t, hyper, rapid)
}
