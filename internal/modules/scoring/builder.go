package scoring

import (
	"math"
	"time"

	"github.com/aristath/hedge/internal/domain"
	"github.com/aristath/hedge/internal/modules/scoring/scorers"
)

// Version tags every snapshot with the scoring algorithm revision, so
// historical snapshots stay comparable after formula changes.
const Version = "1.0.0"

// BuilderConfig holds the snapshot builder's tunables.
type BuilderConfig struct {
	// ConfidenceFloor is the minimum confidence reported for a company
	// that scored at all. Confidence maps completeness linearly onto
	// [floor, 1.0] so an existing company never reports zero.
	ConfidenceFloor float64
	// Version overrides the default scoring version tag (backtests).
	Version string
}

// DefaultBuilderConfig returns the production builder configuration.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		ConfidenceFloor: 0.3,
		Version:         Version,
	}
}

// SnapshotBuilder orchestrates scoring one company on one date: factor
// scores computed once, composites for every scenario derived from that
// single set, tier classified from the default composite, confidence from
// fundamentals completeness.
//
// Building is deterministic: identical fundamentals, classification and
// version yield a bit-identical snapshot.
type SnapshotBuilder struct {
	factorScorer *scorers.FactorScorer
	current      Profile
	gradual      Profile
	rapid        Profile
	hyper        Profile
	bands        Bands
	cfg          BuilderConfig
}

// NewSnapshotBuilder creates a snapshot builder. Profile and band
// invariants are checked up front: malformed configuration is fatal to
// the whole run, not discovered mid-universe.
func NewSnapshotBuilder(factorCfg scorers.Config, bands Bands, cfg BuilderConfig) (*SnapshotBuilder, error) {
	b := &SnapshotBuilder{
		factorScorer: scorers.NewFactorScorer(factorCfg),
		current:      CurrentProfile(),
		gradual:      GradualProfile(),
		rapid:        RapidProfile(),
		hyper:        HyperProfile(),
		bands:        bands,
		cfg:          cfg,
	}
	for _, p := range []Profile{b.current, b.gradual, b.rapid, b.hyper} {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	if err := bands.Validate(); err != nil {
		return nil, err
	}
	if cfg.ConfidenceFloor < 0 || cfg.ConfidenceFloor > 1 {
		return nil, &domain.ConfigError{Field: "confidence_floor", Reason: "must be in [0,1]"}
	}
	if b.cfg.Version == "" {
		b.cfg.Version = Version
	}
	return b, nil
}

// WithProfiles replaces the scenario profiles (custom weightings for
// backtests). The replacement profiles are validated.
func (b *SnapshotBuilder) WithProfiles(current, gradual, rapid, hyper Profile) (*SnapshotBuilder, error) {
	for _, p := range []Profile{current, gradual, rapid, hyper} {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	nb := *b
	nb.current, nb.gradual, nb.rapid, nb.hyper = current, gradual, rapid, hyper
	return &nb, nil
}

// Build scores one company for one date.
//
// Missing fundamentals fields degrade gracefully through per-scorer
// defaults. Missing classification does not: sector and industry drive
// several scorers' base rates, so a company with neither fails with a
// DataError rather than being scored on guesses.
func (b *SnapshotBuilder) Build(c domain.Company, f domain.Fundamentals, date time.Time) (domain.Snapshot, error) {
	if c.Sector == "" && c.Industry == "" {
		return domain.Snapshot{}, &domain.DataError{
			Ticker: c.Ticker,
			Reason: "company has no sector or industry classification",
		}
	}

	// Single source of truth: every composite derives from this one set.
	factors := b.factorScorer.ScoreAll(f, c)

	total := b.current.Composite(factors)

	return domain.Snapshot{
		CompanyID:       c.ID,
		Ticker:          c.Ticker,
		Sector:          c.Sector,
		MarketCap:       c.MarketCap,
		ScoreDate:       date.UTC().Truncate(24 * time.Hour),
		TotalScore:      total,
		Confidence:      b.confidence(f),
		Tier:            b.bands.Classify(total),
		Factors:         factors,
		ScenarioGradual: b.gradual.Composite(factors),
		ScenarioRapid:   b.rapid.Composite(factors),
		ScenarioHyper:   b.hyper.Composite(factors),
		ScoringVersion:  b.cfg.Version,
	}, nil
}

// confidence maps fundamentals completeness onto [floor, 1.0].
// The required fields are the ten inputs the factor formulas consume.
func (b *SnapshotBuilder) confidence(f domain.Fundamentals) float64 {
	required := []bool{
		f.TotalAssets != nil,
		f.TangibleAssets != nil,
		f.TotalRevenue != nil,
		f.ForeignRevenuePct != nil,
		f.GrossMargin != nil,
		f.GrossMargin5YrStd != nil,
		f.TotalDebt != nil,
		f.FixedRateDebtPct != nil,
		f.AvgDebtMaturityYears != nil,
		f.CommodityRevenuePct != nil,
	}

	present := 0
	for _, ok := range required {
		if ok {
			present++
		}
	}

	completeness := float64(present) / float64(len(required))
	confidence := b.cfg.ConfidenceFloor + completeness*(1-b.cfg.ConfidenceFloor)
	return math.Round(confidence*100) / 100
}
