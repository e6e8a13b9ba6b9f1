package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/hedge/internal/domain"
	"github.com/aristath/hedge/internal/modules/scoring/scorers"
)

func newTestBuilder(t *testing.T) *SnapshotBuilder {
	t.Helper()
	b, err := NewSnapshotBuilder(scorers.DefaultConfig(), DefaultBands(), DefaultBuilderConfig())
	require.NoError(t, err)
	return b
}

func i64(v int64) *int64 {
	return &v
}

func f64(v float64) *float64 {
	return &v
}

func fullFundamentals() domain.Fundamentals {
	return domain.Fundamentals{
		TotalAssets:          i64(35_000_000_000),
		TangibleAssets:       i64(30_000_000_000),
		TotalRevenue:         i64(20_000_000_000),
		CommodityRevenuePct:  f64(90),
		ForeignRevenuePct:    f64(20),
		GrossMargin:          f64(35),
		GrossMargin5YrStd:    f64(2),
		TotalDebt:            i64(5_000_000_000),
		FixedRateDebtPct:     f64(80),
		AvgDebtMaturityYears: f64(8),
	}
}

func TestBuildEndToEnd(t *testing.T) {
	b := newTestBuilder(t)

	c := domain.Company{
		ID:        "c1",
		Ticker:    "XOM",
		Sector:    "Energy",
		Industry:  "Oil & Gas E&P",
		MarketCap: 400_000_000_000,
	}
	date := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	snap, err := b.Build(c, fullFundamentals(), date)
	require.NoError(t, err)

	assert.Equal(t, "c1", snap.CompanyID)
	assert.Equal(t, "XOM", snap.Ticker)
	assert.Equal(t, "Energy", snap.Sector)
	assert.Equal(t, int64(400_000_000_000), snap.MarketCap)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), snap.ScoreDate)

	assert.InDelta(t, 62.91, snap.TotalScore, 0.01)
	assert.Equal(t, domain.TierModerate, snap.Tier)
	assert.InDelta(t, 1.0, snap.Confidence, 1e-9)
	assert.Equal(t, Version, snap.ScoringVersion)

	// Scenario composites derive from the same factor set.
	assert.InDelta(t, GradualProfile().Composite(snap.Factors), snap.ScenarioGradual, 1e-9)
	assert.InDelta(t, RapidProfile().Composite(snap.Factors), snap.ScenarioRapid, 1e-9)
	assert.InDelta(t, HyperProfile().Composite(snap.Factors), snap.ScenarioHyper, 1e-9)
}

func TestBuildIsDeterministic(t *testing.T) {
	b := newTestBuilder(t)

	c := domain.Company{ID: "c1", Ticker: "NEM", Sector: "Materials", Industry: "Gold Mining"}
	date := time.Now()

	first, err := b.Build(c, fullFundamentals(), date)
	require.NoError(t, err)
	second, err := b.Build(c, fullFundamentals(), date)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildRejectsUnclassifiedCompany(t *testing.T) {
	b := newTestBuilder(t)

	_, err := b.Build(domain.Company{Ticker: "MYST"}, fullFundamentals(), time.Now())
	require.Error(t, err)
	assert.True(t, domain.IsDataError(err))
	assert.Contains(t, err.Error(), "MYST")

	// Either field alone is enough classification to score on.
	_, err = b.Build(domain.Company{Ticker: "SEC", Sector: "Energy"}, fullFundamentals(), time.Now())
	assert.NoError(t, err)
	_, err = b.Build(domain.Company{Ticker: "IND", Industry: "Steel"}, fullFundamentals(), time.Now())
	assert.NoError(t, err)
}

func TestBuildScoreDateNormalizedToUTCMidnight(t *testing.T) {
	b := newTestBuilder(t)
	c := domain.Company{Ticker: "T", Sector: "Utilities", Industry: "Telecom"}

	athens := time.FixedZone("EET", 2*60*60)
	date := time.Date(2026, 8, 31, 1, 30, 0, 0, athens) // still Aug 30 in UTC

	snap, err := b.Build(c, domain.Fundamentals{}, date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), snap.ScoreDate)
}

func TestConfidence(t *testing.T) {
	b := newTestBuilder(t)
	c := domain.Company{Ticker: "T", Sector: "Energy"}

	t.Run("no fundamentals floors out", func(t *testing.T) {
		snap, err := b.Build(c, domain.Fundamentals{}, time.Now())
		require.NoError(t, err)
		assert.InDelta(t, 0.3, snap.Confidence, 1e-9)
	})

	t.Run("complete fundamentals reach full confidence", func(t *testing.T) {
		snap, err := b.Build(c, fullFundamentals(), time.Now())
		require.NoError(t, err)
		assert.InDelta(t, 1.0, snap.Confidence, 1e-9)
	})

	t.Run("half the required fields land mid-range", func(t *testing.T) {
		f := domain.Fundamentals{
			TotalAssets:       i64(100),
			TangibleAssets:    i64(50),
			TotalRevenue:      i64(10),
			ForeignRevenuePct: f64(20),
			GrossMargin:       f64(30),
		}
		snap, err := b.Build(c, f, time.Now())
		require.NoError(t, err)
		assert.InDelta(t, 0.65, snap.Confidence, 1e-9)
	})

	t.Run("non-required fields do not move confidence", func(t *testing.T) {
		f := domain.Fundamentals{
			IntangibleAssets:   i64(5),
			ProvenReservesOz:   i64(1_000_000),
			DomesticRevenuePct: f64(80),
		}
		snap, err := b.Build(c, f, time.Now())
		require.NoError(t, err)
		assert.InDelta(t, 0.3, snap.Confidence, 1e-9)
	})
}

func TestNewSnapshotBuilderValidatesConfig(t *testing.T) {
	t.Run("confidence floor out of range", func(t *testing.T) {
		cfg := DefaultBuilderConfig()
		cfg.ConfidenceFloor = 1.5
		_, err := NewSnapshotBuilder(scorers.DefaultConfig(), DefaultBands(), cfg)
		var cfgErr *domain.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("malformed bands", func(t *testing.T) {
		_, err := NewSnapshotBuilder(scorers.DefaultConfig(), Bands{}, DefaultBuilderConfig())
		assert.Error(t, err)
	})

	t.Run("empty version falls back to default", func(t *testing.T) {
		cfg := DefaultBuilderConfig()
		cfg.Version = ""
		b, err := NewSnapshotBuilder(scorers.DefaultConfig(), DefaultBands(), cfg)
		require.NoError(t, err)

		snap, err := b.Build(domain.Company{Ticker: "T", Sector: "Energy"}, domain.Fundamentals{}, time.Now())
		require.NoError(t, err)
		assert.Equal(t, Version, snap.ScoringVersion)
	})
}

func TestWithProfilesValidatesReplacements(t *testing.T) {
	b := newTestBuilder(t)

	bad := CurrentProfile()
	bad.HardAssets = 0.9
	_, err := b.WithProfiles(bad, GradualProfile(), RapidProfile(), HyperProfile())
	assert.Error(t, err)

	// A valid replacement changes the composite without touching the original.
	allHard := Profile{Name: "all_hard", HardAssets: 1.0}
	nb, err := b.WithProfiles(allHard, GradualProfile(), RapidProfile(), HyperProfile())
	require.NoError(t, err)

	c := domain.Company{Ticker: "T", Sector: "Energy", Industry: "Oil & Gas E&P"}
	snap, err := nb.Build(c, fullFundamentals(), time.Now())
	require.NoError(t, err)
	assert.InDelta(t, snap.Factors.HardAssets, snap.TotalScore, 0.01)

	orig, err := b.Build(c, fullFundamentals(), time.Now())
	require.NoError(t, err)
	assert.InDelta(t, 62.91, orig.TotalScore, 0.01)
}
