package scoring

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/hedge/internal/database"
	"github.com/aristath/hedge/internal/domain"
)

func newScoresDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(database.Config{
		Path:    fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano()),
		Profile: database.ProfileScores,
		Name:    "scores",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())
	return db.Conn()
}

func testSnapshot(companyID, ticker string, date time.Time, total float64) domain.Snapshot {
	return domain.Snapshot{
		CompanyID:  companyID,
		Ticker:     ticker,
		Sector:     "Energy",
		MarketCap:  1_000_000_000,
		ScoreDate:  date,
		TotalScore: total,
		Confidence: 0.86,
		Tier:       domain.TierModerate,
		Factors: domain.FactorScores{
			HardAssets:        70,
			Commodities:       80,
			ForeignRevenue:    30,
			PricingPower:      60,
			DebtStructure:     55,
			EssentialServices: 40,
		},
		ScenarioGradual: total + 1,
		ScenarioRapid:   total + 2,
		ScenarioHyper:   total + 3,
		ScoringVersion:  Version,
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	repo := NewRepository(newScoresDB(t), zerolog.Nop())

	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	snap := testSnapshot("c1", "XOM", date, 62.5)
	require.NoError(t, repo.UpsertSnapshot(snap))

	got, err := repo.GetLatest("c1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.True(t, got.ScoreDate.Equal(date), "got score date %v", got.ScoreDate)
	got.ScoreDate = snap.ScoreDate
	assert.Equal(t, snap, *got)
}

func TestUpsertSnapshotOverwritesSameDate(t *testing.T) {
	repo := NewRepository(newScoresDB(t), zerolog.Nop())
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertSnapshot(testSnapshot("c1", "XOM", date, 50)))
	require.NoError(t, repo.UpsertSnapshot(testSnapshot("c1", "XOM", date, 75)))

	got, err := repo.GetLatest("c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 75.0, got.TotalScore)

	all, err := repo.GetByDate(date)
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert must not create a duplicate row")
}

func TestGetLatestReturnsNilWhenNeverScored(t *testing.T) {
	repo := NewRepository(newScoresDB(t), zerolog.Nop())

	got, err := repo.GetLatest("ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetLatestPicksNewestDate(t *testing.T) {
	repo := NewRepository(newScoresDB(t), zerolog.Nop())

	older := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpsertSnapshot(testSnapshot("c1", "XOM", newer, 70)))
	require.NoError(t, repo.UpsertSnapshot(testSnapshot("c1", "XOM", older, 50)))

	got, err := repo.GetLatest("c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 70.0, got.TotalScore)
}

func TestGetAllLatestOnePerCompany(t *testing.T) {
	repo := NewRepository(newScoresDB(t), zerolog.Nop())

	older := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpsertSnapshot(testSnapshot("c1", "XOM", older, 50)))
	require.NoError(t, repo.UpsertSnapshot(testSnapshot("c1", "XOM", newer, 55)))
	require.NoError(t, repo.UpsertSnapshot(testSnapshot("c2", "NEM", older, 80)))

	all, err := repo.GetAllLatest()
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, "c1", all[0].CompanyID)
	assert.Equal(t, 55.0, all[0].TotalScore)
	assert.Equal(t, "c2", all[1].CompanyID)
	assert.Equal(t, 80.0, all[1].TotalScore)
}

func TestGetByDate(t *testing.T) {
	repo := NewRepository(newScoresDB(t), zerolog.Nop())

	target := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	other := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpsertSnapshot(testSnapshot("c1", "XOM", target, 50)))
	require.NoError(t, repo.UpsertSnapshot(testSnapshot("c2", "NEM", target, 80)))
	require.NoError(t, repo.UpsertSnapshot(testSnapshot("c3", "CVX", other, 60)))

	got, err := repo.GetByDate(target)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRunLifecyclePersistence(t *testing.T) {
	repo := NewRepository(newScoresDB(t), zerolog.Nop())

	started := time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)
	run := Run{
		ID:             "run-1",
		RunDate:        time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:         StatusRunning,
		ScoringVersion: Version,
		StartedAt:      started,
	}
	require.NoError(t, repo.CreateRun(run))

	// An in-flight run reads back with zeroed statistics.
	runs, err := repo.GetRecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, StatusRunning, runs[0].Status)
	assert.Zero(t, runs[0].AvgScore)
	assert.Nil(t, runs[0].CompletedAt)

	completed := started.Add(42 * time.Second)
	run.Status = StatusCompleted
	run.CompaniesScored = 120
	run.CompaniesFailed = 3
	run.AvgScore = 58.41
	run.MedianScore = 57.2
	run.Duration = 42 * time.Second
	run.CompletedAt = &completed
	require.NoError(t, repo.FinishRun(run))

	runs, err = repo.GetRecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, 120, got.CompaniesScored)
	assert.Equal(t, 3, got.CompaniesFailed)
	assert.Equal(t, 58.41, got.AvgScore)
	assert.Equal(t, 57.2, got.MedianScore)
	assert.Equal(t, 42*time.Second, got.Duration)
	assert.True(t, got.StartedAt.Equal(started))
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(completed))
}

func TestGetRecentRunsOrderAndLimit(t *testing.T) {
	repo := NewRepository(newScoresDB(t), zerolog.Nop())

	base := time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.CreateRun(Run{
			ID:             fmt.Sprintf("run-%d", i),
			RunDate:        base.AddDate(0, 0, i),
			Status:         StatusCompleted,
			ScoringVersion: Version,
			StartedAt:      base.AddDate(0, 0, i),
		}))
	}

	runs, err := repo.GetRecentRuns(3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-4", runs[0].ID)
	assert.Equal(t, "run-3", runs[1].ID)
	assert.Equal(t, "run-2", runs[2].ID)

	// Non-positive limits fall back to the default window.
	runs, err = repo.GetRecentRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 5)
}
