package scoring

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/hedge/internal/domain"
)

// UniverseProvider supplies the company universe and fundamentals.
// Defined here to avoid an import cycle with the universe package.
type UniverseProvider interface {
	GetActiveCompanies() ([]domain.Company, error)
	// GetLatestFundamentals returns the newest fiscal period for a company,
	// or nil when the company has no fundamentals at all.
	GetLatestFundamentals(companyID string) (*domain.Fundamentals, error)
}

// SnapshotStore persists scoring output.
type SnapshotStore interface {
	UpsertSnapshot(s domain.Snapshot) error
	CreateRun(r Run) error
	FinishRun(r Run) error
}

// RunStatus is the terminal state of a batch scoring run.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// Run is the summary record of one batch scoring run.
type Run struct {
	ID              string     `json:"id"`
	RunDate         time.Time  `json:"run_date"`
	Status          RunStatus  `json:"status"`
	CompaniesScored int        `json:"companies_scored"`
	CompaniesFailed int        `json:"companies_failed"`
	AvgScore        float64    `json:"avg_score"`
	MedianScore     float64    `json:"median_score"`
	Duration        time.Duration `json:"duration_ms"`
	ScoringVersion  string     `json:"scoring_version"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// CompanyFailure records one company that could not be scored.
type CompanyFailure struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// RunResult is the in-memory outcome of a batch run, including the
// per-company failures the persisted Run record only counts.
type RunResult struct {
	Run      Run              `json:"run"`
	Failures []CompanyFailure `json:"failures,omitempty"`
}

// BatchConfig holds batch runner tunables.
type BatchConfig struct {
	// Workers bounds the scoring fan-out. Per-company scoring has no
	// cross-company dependency, so the universe is embarrassingly parallel.
	Workers int
	// FailureThreshold is the failure rate above which the whole run is
	// marked failed instead of completed-with-failures.
	FailureThreshold float64
}

// DefaultBatchConfig returns the production batch configuration.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		Workers:          8,
		FailureThreshold: 0.5,
	}
}

// BatchRunner applies the snapshot builder across the full company universe
// for one date. Each company's success or failure is independent - one bad
// company never aborts the run.
type BatchRunner struct {
	builder  *SnapshotBuilder
	universe UniverseProvider
	store    SnapshotStore
	cfg      BatchConfig
	log      zerolog.Logger
}

// NewBatchRunner creates a batch runner.
func NewBatchRunner(builder *SnapshotBuilder, universe UniverseProvider, store SnapshotStore, cfg BatchConfig, log zerolog.Logger) *BatchRunner {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &BatchRunner{
		builder:  builder,
		universe: universe,
		store:    store,
		cfg:      cfg,
		log:      log.With().Str("service", "batch_scoring").Logger(),
	}
}

// companyResult carries one worker's output back to the collector.
type companyResult struct {
	snapshot domain.Snapshot
	failure  *CompanyFailure
}

// Run scores the whole universe for the given date. Re-running for a date
// that already has snapshots upserts them, so a run after a fundamentals
// correction is safe.
func (b *BatchRunner) Run(ctx context.Context, date time.Time) (RunResult, error) {
	started := time.Now()

	companies, err := b.universe.GetActiveCompanies()
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to load company universe: %w", err)
	}

	run := Run{
		ID:             uuid.NewString(),
		RunDate:        date.UTC().Truncate(24 * time.Hour),
		Status:         StatusRunning,
		ScoringVersion: b.builder.cfg.Version,
		StartedAt:      started.UTC(),
	}
	if err := b.store.CreateRun(run); err != nil {
		return RunResult{}, fmt.Errorf("failed to create scoring run record: %w", err)
	}

	b.log.Info().
		Str("run_id", run.ID).
		Int("companies", len(companies)).
		Int("workers", b.cfg.Workers).
		Msg("Starting batch scoring run")

	results := b.scoreAll(ctx, companies, date)

	// Collect before computing statistics: avg/median over a partial,
	// incrementally-updated set would be order-dependent.
	var (
		scores   []float64
		failures []CompanyFailure
	)
	for _, res := range results {
		if res.failure != nil {
			failures = append(failures, *res.failure)
			continue
		}
		if err := b.store.UpsertSnapshot(res.snapshot); err != nil {
			failures = append(failures, CompanyFailure{
				Ticker: res.snapshot.Ticker,
				Reason: fmt.Sprintf("failed to persist snapshot: %v", err),
			})
			continue
		}
		scores = append(scores, res.snapshot.TotalScore)
	}

	run.CompaniesScored = len(scores)
	run.CompaniesFailed = len(failures)
	run.Duration = time.Since(started)
	run.Status = b.status(len(companies), len(failures))
	if len(scores) > 0 {
		sorted := append([]float64(nil), scores...)
		sort.Float64s(sorted)
		run.AvgScore = round2(stat.Mean(sorted, nil))
		run.MedianScore = round2(stat.Quantile(0.5, stat.Empirical, sorted, nil))
	}
	if run.Status == StatusFailed {
		run.ErrorMessage = fmt.Sprintf("%d of %d companies failed", len(failures), len(companies))
	}
	completed := time.Now().UTC()
	run.CompletedAt = &completed

	if err := b.store.FinishRun(run); err != nil {
		return RunResult{}, fmt.Errorf("failed to finalize scoring run record: %w", err)
	}

	b.log.Info().
		Str("run_id", run.ID).
		Int("scored", run.CompaniesScored).
		Int("failed", run.CompaniesFailed).
		Str("status", string(run.Status)).
		Dur("duration", run.Duration).
		Msg("Batch scoring run finished")

	return RunResult{Run: run, Failures: failures}, nil
}

// scoreAll fans company scoring out across the worker pool and merges the
// per-worker results. Workers only ever write to the results channel, so no
// shared mutable error list needs guarding.
func (b *BatchRunner) scoreAll(ctx context.Context, companies []domain.Company, date time.Time) []companyResult {
	jobs := make(chan domain.Company)
	out := make(chan companyResult)

	var wg sync.WaitGroup
	for i := 0; i < b.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				out <- b.scoreOne(c, date)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, c := range companies {
			select {
			case <-ctx.Done():
				return
			case jobs <- c:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]companyResult, 0, len(companies))
	for res := range out {
		results = append(results, res)
	}
	return results
}

// scoreOne scores a single company, converting any failure into a recorded
// CompanyFailure instead of an error.
func (b *BatchRunner) scoreOne(c domain.Company, date time.Time) companyResult {
	fundamentals, err := b.universe.GetLatestFundamentals(c.ID)
	if err != nil {
		return companyResult{failure: &CompanyFailure{
			Ticker: c.Ticker,
			Reason: fmt.Sprintf("failed to load fundamentals: %v", err),
		}}
	}

	// A company without any fundamentals still scores: every factor
	// degrades to its documented default, and confidence bottoms out.
	f := domain.Fundamentals{CompanyID: c.ID}
	if fundamentals != nil {
		f = *fundamentals
	}

	snapshot, err := b.builder.Build(c, f, date)
	if err != nil {
		b.log.Warn().Str("ticker", c.Ticker).Err(err).Msg("Company failed scoring")
		return companyResult{failure: &CompanyFailure{Ticker: c.Ticker, Reason: err.Error()}}
	}
	return companyResult{snapshot: snapshot}
}

// status resolves the run's terminal status from its failure rate.
func (b *BatchRunner) status(total, failed int) RunStatus {
	if total == 0 {
		return StatusCompleted
	}
	if float64(failed)/float64(total) > b.cfg.FailureThreshold {
		return StatusFailed
	}
	return StatusCompleted
}
