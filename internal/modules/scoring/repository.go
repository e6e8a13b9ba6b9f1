package scoring

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/hedge/internal/domain"
)

// dateFormat is how score dates are stored (date only, UTC).
const dateFormat = "2006-01-02"

// Repository handles snapshot and scoring-run persistence (scores.db).
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a scoring repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "scoring").Logger(),
	}
}

// UpsertSnapshot inserts or replaces the snapshot for (company, date).
// Scoring is idempotent for identical inputs, so overwriting is safe and
// re-runs never produce duplicates.
func (r *Repository) UpsertSnapshot(s domain.Snapshot) error {
	query := `INSERT INTO score_snapshots (
		company_id, ticker, sector, market_cap, score_date, total_score, confidence, tier,
		hard_assets, precious_metals, commodities, foreign_revenue,
		pricing_power, debt_structure, essential_services,
		scenario_gradual, scenario_rapid, scenario_hyper, scoring_version
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(company_id, score_date) DO UPDATE SET
		ticker = excluded.ticker,
		sector = excluded.sector,
		market_cap = excluded.market_cap,
		total_score = excluded.total_score,
		confidence = excluded.confidence,
		tier = excluded.tier,
		hard_assets = excluded.hard_assets,
		precious_metals = excluded.precious_metals,
		commodities = excluded.commodities,
		foreign_revenue = excluded.foreign_revenue,
		pricing_power = excluded.pricing_power,
		debt_structure = excluded.debt_structure,
		essential_services = excluded.essential_services,
		scenario_gradual = excluded.scenario_gradual,
		scenario_rapid = excluded.scenario_rapid,
		scenario_hyper = excluded.scenario_hyper,
		scoring_version = excluded.scoring_version`

	_, err := r.db.Exec(query,
		s.CompanyID, s.Ticker, s.Sector, s.MarketCap,
		s.ScoreDate.Format(dateFormat), s.TotalScore, s.Confidence, string(s.Tier),
		s.Factors.HardAssets, s.Factors.PreciousMetals, s.Factors.Commodities,
		s.Factors.ForeignRevenue, s.Factors.PricingPower, s.Factors.DebtStructure,
		s.Factors.EssentialServices,
		s.ScenarioGradual, s.ScenarioRapid, s.ScenarioHyper, s.ScoringVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot for %s: %w", s.CompanyID, err)
	}
	return nil
}

// GetLatest returns the most recent snapshot for a company, or nil when the
// company has never been scored.
func (r *Repository) GetLatest(companyID string) (*domain.Snapshot, error) {
	query := snapshotSelect + `
		WHERE company_id = ?
		ORDER BY score_date DESC
		LIMIT 1`

	row := r.db.QueryRow(query, companyID)
	s, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest snapshot for %s: %w", companyID, err)
	}
	return &s, nil
}

// GetAllLatest returns the most recent snapshot per company, the working
// set for the screener and portfolio aggregation.
func (r *Repository) GetAllLatest() ([]domain.Snapshot, error) {
	query := snapshotSelect + `
		WHERE (company_id, score_date) IN (
			SELECT company_id, MAX(score_date) FROM score_snapshots GROUP BY company_id
		)
		ORDER BY company_id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// GetByDate returns all snapshots for one score date.
func (r *Repository) GetByDate(date time.Time) ([]domain.Snapshot, error) {
	query := snapshotSelect + `
		WHERE score_date = ?
		ORDER BY company_id`

	rows, err := r.db.Query(query, date.UTC().Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots by date: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// CreateRun inserts a new scoring run record in the running state.
func (r *Repository) CreateRun(run Run) error {
	_, err := r.db.Exec(`INSERT INTO scoring_runs
		(id, run_date, status, scoring_version, started_at)
		VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.RunDate.Format(dateFormat), string(run.Status),
		run.ScoringVersion, run.StartedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert scoring run: %w", err)
	}
	return nil
}

// FinishRun records a run's terminal state and statistics.
func (r *Repository) FinishRun(run Run) error {
	var completedAt interface{}
	if run.CompletedAt != nil {
		completedAt = run.CompletedAt.Format(time.RFC3339)
	}

	_, err := r.db.Exec(`UPDATE scoring_runs SET
		status = ?, companies_scored = ?, companies_failed = ?,
		avg_score = ?, median_score = ?, duration_ms = ?,
		error_message = ?, completed_at = ?
		WHERE id = ?`,
		string(run.Status), run.CompaniesScored, run.CompaniesFailed,
		run.AvgScore, run.MedianScore, run.Duration.Milliseconds(),
		run.ErrorMessage, completedAt, run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize scoring run %s: %w", run.ID, err)
	}
	return nil
}

// GetRecentRuns returns the most recent scoring runs, newest first.
func (r *Repository) GetRecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`SELECT
		id, run_date, status, companies_scored, companies_failed,
		COALESCE(avg_score, 0), COALESCE(median_score, 0),
		COALESCE(duration_ms, 0), scoring_version, error_message,
		started_at, completed_at
		FROM scoring_runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scoring runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run                  Run
			runDate, startedAt   string
			completedAt          sql.NullString
			durationMs           int64
		)
		if err := rows.Scan(
			&run.ID, &runDate, &run.Status, &run.CompaniesScored, &run.CompaniesFailed,
			&run.AvgScore, &run.MedianScore, &durationMs, &run.ScoringVersion,
			&run.ErrorMessage, &startedAt, &completedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan scoring run: %w", err)
		}
		run.RunDate, _ = time.Parse(dateFormat, runDate)
		run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		run.Duration = time.Duration(durationMs) * time.Millisecond
		if completedAt.Valid {
			t, err := time.Parse(time.RFC3339, completedAt.String)
			if err == nil {
				run.CompletedAt = &t
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

const snapshotSelect = `SELECT
	company_id, ticker, sector, market_cap, score_date, total_score, confidence, tier,
	hard_assets, precious_metals, commodities, foreign_revenue,
	pricing_power, debt_structure, essential_services,
	scenario_gradual, scenario_rapid, scenario_hyper, scoring_version
	FROM score_snapshots`

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row rowScanner) (domain.Snapshot, error) {
	var (
		s    domain.Snapshot
		date string
		tier string
	)
	err := row.Scan(
		&s.CompanyID, &s.Ticker, &s.Sector, &s.MarketCap,
		&date, &s.TotalScore, &s.Confidence, &tier,
		&s.Factors.HardAssets, &s.Factors.PreciousMetals, &s.Factors.Commodities,
		&s.Factors.ForeignRevenue, &s.Factors.PricingPower, &s.Factors.DebtStructure,
		&s.Factors.EssentialServices,
		&s.ScenarioGradual, &s.ScenarioRapid, &s.ScenarioHyper, &s.ScoringVersion,
	)
	if err != nil {
		return domain.Snapshot{}, err
	}
	s.Tier = domain.Tier(tier)
	s.ScoreDate, _ = time.Parse(dateFormat, date)
	return s, nil
}

func scanSnapshots(rows *sql.Rows) ([]domain.Snapshot, error) {
	var snapshots []domain.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
