package scoring

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/hedge/internal/domain"
)

type fakeUniverse struct {
	companies    []domain.Company
	fundamentals map[string]*domain.Fundamentals
	loadErr      map[string]error
}

func (u *fakeUniverse) GetActiveCompanies() ([]domain.Company, error) {
	return u.companies, nil
}

func (u *fakeUniverse) GetLatestFundamentals(companyID string) (*domain.Fundamentals, error) {
	if err := u.loadErr[companyID]; err != nil {
		return nil, err
	}
	return u.fundamentals[companyID], nil
}

type fakeStore struct {
	snapshots []domain.Snapshot
	created   []Run
	finished  []Run
	upsertErr map[string]error
}

func (s *fakeStore) UpsertSnapshot(snap domain.Snapshot) error {
	if err := s.upsertErr[snap.Ticker]; err != nil {
		return err
	}
	s.snapshots = append(s.snapshots, snap)
	return nil
}

func (s *fakeStore) CreateRun(r Run) error {
	s.created = append(s.created, r)
	return nil
}

func (s *fakeStore) FinishRun(r Run) error {
	s.finished = append(s.finished, r)
	return nil
}

func newTestRunner(t *testing.T, universe *fakeUniverse, store *fakeStore, cfg BatchConfig) *BatchRunner {
	t.Helper()
	return NewBatchRunner(newTestBuilder(t), universe, store, cfg, zerolog.Nop())
}

func classified(id, ticker string) domain.Company {
	return domain.Company{ID: id, Ticker: ticker, Sector: "Energy", Industry: "Oil & Gas E&P"}
}

func TestBatchRunPartialFailure(t *testing.T) {
	universe := &fakeUniverse{
		companies: []domain.Company{
			classified("c1", "XOM"),
			classified("c2", "CVX"),
			classified("c3", "COP"),
			{ID: "c4", Ticker: "MYST"}, // no classification, cannot be scored
		},
		fundamentals: map[string]*domain.Fundamentals{
			"c1": {CompanyID: "c1", TangibleAssets: i64(30), TotalAssets: i64(35)},
			"c2": {CompanyID: "c2", CommodityRevenuePct: f64(90)},
		},
	}
	store := &fakeStore{}
	runner := newTestRunner(t, universe, store, DefaultBatchConfig())

	result, err := runner.Run(context.Background(), time.Date(2026, 6, 1, 14, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Run.Status)
	assert.Equal(t, 3, result.Run.CompaniesScored)
	assert.Equal(t, 1, result.Run.CompaniesFailed)
	assert.Empty(t, result.Run.ErrorMessage)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "MYST", result.Failures[0].Ticker)

	require.Len(t, store.snapshots, 3)
	for _, snap := range store.snapshots {
		assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), snap.ScoreDate)
	}

	// Run statistics must agree with the snapshots actually persisted.
	scores := make([]float64, 0, len(store.snapshots))
	for _, snap := range store.snapshots {
		scores = append(scores, snap.TotalScore)
	}
	sort.Float64s(scores)
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	assert.InDelta(t, sum/3, result.Run.AvgScore, 0.01)
	assert.InDelta(t, scores[1], result.Run.MedianScore, 0.01)
}

func TestBatchRunFailureThresholdBreached(t *testing.T) {
	universe := &fakeUniverse{
		companies: []domain.Company{
			classified("c1", "XOM"),
			{ID: "c2", Ticker: "AAA"},
			{ID: "c3", Ticker: "BBB"},
		},
	}
	store := &fakeStore{}
	runner := newTestRunner(t, universe, store, DefaultBatchConfig())

	result, err := runner.Run(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, result.Run.Status)
	assert.Equal(t, 1, result.Run.CompaniesScored)
	assert.Equal(t, 2, result.Run.CompaniesFailed)
	assert.Equal(t, "2 of 3 companies failed", result.Run.ErrorMessage)
}

func TestBatchRunScoresCompaniesWithoutFundamentals(t *testing.T) {
	universe := &fakeUniverse{
		companies: []domain.Company{classified("c1", "XOM")},
	}
	store := &fakeStore{}
	runner := newTestRunner(t, universe, store, DefaultBatchConfig())

	result, err := runner.Run(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Run.CompaniesScored)
	require.Len(t, store.snapshots, 1)
	assert.InDelta(t, 0.3, store.snapshots[0].Confidence, 1e-9)
}

func TestBatchRunPersistFailureCountsAgainstCompany(t *testing.T) {
	universe := &fakeUniverse{
		companies: []domain.Company{classified("c1", "XOM"), classified("c2", "CVX")},
	}
	store := &fakeStore{
		upsertErr: map[string]error{"CVX": errors.New("disk full")},
	}
	runner := newTestRunner(t, universe, store, DefaultBatchConfig())

	result, err := runner.Run(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Run.CompaniesScored)
	assert.Equal(t, 1, result.Run.CompaniesFailed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "CVX", result.Failures[0].Ticker)
	assert.Contains(t, result.Failures[0].Reason, "disk full")
}

func TestBatchRunFundamentalsLoadErrorIsRecorded(t *testing.T) {
	universe := &fakeUniverse{
		companies: []domain.Company{classified("c1", "XOM")},
		loadErr:   map[string]error{"c1": errors.New("corrupt row")},
	}
	store := &fakeStore{}
	runner := newTestRunner(t, universe, store, DefaultBatchConfig())

	result, err := runner.Run(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Run.CompaniesScored)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0].Reason, "corrupt row")
}

func TestBatchRunEmptyUniverse(t *testing.T) {
	store := &fakeStore{}
	runner := newTestRunner(t, &fakeUniverse{}, store, DefaultBatchConfig())

	result, err := runner.Run(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Run.Status)
	assert.Zero(t, result.Run.CompaniesScored)
	assert.Zero(t, result.Run.AvgScore)
	assert.Empty(t, store.snapshots)
}

func TestBatchRunRecordsLifecycle(t *testing.T) {
	universe := &fakeUniverse{
		companies: []domain.Company{classified("c1", "XOM")},
	}
	store := &fakeStore{}
	runner := newTestRunner(t, universe, store, DefaultBatchConfig())

	result, err := runner.Run(context.Background(), time.Date(2026, 6, 1, 23, 59, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	assert.Equal(t, StatusRunning, store.created[0].Status)
	assert.Equal(t, result.Run.ID, store.created[0].ID)
	assert.NotEmpty(t, store.created[0].ID)
	assert.Equal(t, Version, store.created[0].ScoringVersion)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), store.created[0].RunDate)

	require.Len(t, store.finished, 1)
	assert.Equal(t, StatusCompleted, store.finished[0].Status)
	require.NotNil(t, store.finished[0].CompletedAt)
	assert.False(t, store.finished[0].CompletedAt.Before(store.finished[0].StartedAt))
}

func TestBatchRunnerSingleWorkerFloor(t *testing.T) {
	universe := &fakeUniverse{
		companies: []domain.Company{classified("c1", "A"), classified("c2", "B")},
	}
	store := &fakeStore{}
	runner := newTestRunner(t, universe, store, BatchConfig{Workers: 0, FailureThreshold: 0.5})

	result, err := runner.Run(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Run.CompaniesScored)

	// With a single worker the scheduled order survives end to end.
	require.Len(t, store.snapshots, 2)
	assert.Equal(t, "A", store.snapshots[0].Ticker)
	assert.Equal(t, "B", store.snapshots[1].Ticker)
}

func TestBatchRunManyWorkers(t *testing.T) {
	// Many workers, many companies: the run must complete with every company
	// accounted for exactly once.
	companies := make([]domain.Company, 0, 50)
	for i := 0; i < 50; i++ {
		id := string(rune('a'+i%26)) + string(rune('0'+i/26))
		companies = append(companies, classified(id, id))
	}
	universe := &fakeUniverse{companies: companies}
	store := &fakeStore{}
	runner := newTestRunner(t, universe, store, BatchConfig{Workers: 16, FailureThreshold: 0.5})

	result, err := runner.Run(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 50, result.Run.CompaniesScored)

	seen := make(map[string]bool, 50)
	for _, snap := range store.snapshots {
		assert.False(t, seen[snap.Ticker], "ticker %s scored twice", snap.Ticker)
		seen[snap.Ticker] = true
	}
	assert.Len(t, seen, 50)
}
