// Package universe manages the company universe and its fundamentals
// (universe.db). Fundamentals are immutable per fiscal period: a correction
// arrives as a newer period, never as an in-place update.
package universe

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/hedge/internal/domain"
)

// Repository handles company and fundamentals database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a universe repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "universe").Logger(),
	}
}

// UpsertCompany inserts or updates a company keyed by ticker.
// Returns the company with its ID populated.
func (r *Repository) UpsertCompany(c domain.Company) (domain.Company, error) {
	if c.ID == "" {
		existing, err := r.GetByTicker(c.Ticker)
		if err != nil {
			return domain.Company{}, err
		}
		if existing != nil {
			c.ID = existing.ID
		} else {
			c.ID = uuid.NewString()
		}
	}

	_, err := r.db.Exec(`INSERT INTO companies
		(id, ticker, name, sector, industry, market_cap, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			name = excluded.name,
			sector = excluded.sector,
			industry = excluded.industry,
			market_cap = excluded.market_cap,
			active = excluded.active,
			updated_at = datetime('now')`,
		c.ID, c.Ticker, c.Name, c.Sector, c.Industry, c.MarketCap, boolToInt(c.Active),
	)
	if err != nil {
		return domain.Company{}, fmt.Errorf("failed to upsert company %s: %w", c.Ticker, err)
	}
	return c, nil
}

// GetByTicker returns a company by ticker, or nil when unknown.
func (r *Repository) GetByTicker(ticker string) (*domain.Company, error) {
	row := r.db.QueryRow(`SELECT id, ticker, name, sector, industry, market_cap, active
		FROM companies WHERE ticker = ?`, ticker)
	c, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company %s: %w", ticker, err)
	}
	return &c, nil
}

// GetActiveCompanies returns all active companies in the universe.
func (r *Repository) GetActiveCompanies() ([]domain.Company, error) {
	rows, err := r.db.Query(`SELECT id, ticker, name, sector, industry, market_cap, active
		FROM companies WHERE active = 1 ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active companies: %w", err)
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// InsertFundamentals stores one fiscal period for a company. Periods are
// write-once: inserting an existing (company, year, quarter) fails.
func (r *Repository) InsertFundamentals(f domain.Fundamentals) error {
	_, err := r.db.Exec(`INSERT INTO fundamentals (
		company_id, fiscal_year, fiscal_quarter,
		total_assets, tangible_assets, intangible_assets,
		total_revenue, domestic_revenue_pct, foreign_revenue_pct,
		commodity_revenue_pct, precious_metals_revenue_pct,
		total_debt, fixed_rate_debt_pct, floating_rate_debt_pct,
		avg_debt_maturity_years, avg_interest_rate,
		gross_margin, gross_margin_5yr_avg, gross_margin_5yr_std,
		revenue_growth_3yr_cagr, proven_reserves_oz, probable_reserves_oz
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.CompanyID, f.FiscalYear, f.FiscalQuarter,
		f.TotalAssets, f.TangibleAssets, f.IntangibleAssets,
		f.TotalRevenue, f.DomesticRevenuePct, f.ForeignRevenuePct,
		f.CommodityRevenuePct, f.PreciousMetalsRevPct,
		f.TotalDebt, f.FixedRateDebtPct, f.FloatingRateDebtPct,
		f.AvgDebtMaturityYears, f.AvgInterestRate,
		f.GrossMargin, f.GrossMargin5YrAvg, f.GrossMargin5YrStd,
		f.RevenueGrowth3YrCAGR, f.ProvenReservesOz, f.ProbableReservesOz,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fundamentals for %s FY%d: %w", f.CompanyID, f.FiscalYear, err)
	}
	return nil
}

// GetLatestFundamentals returns the newest fiscal period for a company, or
// nil when the company has no fundamentals.
func (r *Repository) GetLatestFundamentals(companyID string) (*domain.Fundamentals, error) {
	row := r.db.QueryRow(`SELECT
		company_id, fiscal_year, fiscal_quarter,
		total_assets, tangible_assets, intangible_assets,
		total_revenue, domestic_revenue_pct, foreign_revenue_pct,
		commodity_revenue_pct, precious_metals_revenue_pct,
		total_debt, fixed_rate_debt_pct, floating_rate_debt_pct,
		avg_debt_maturity_years, avg_interest_rate,
		gross_margin, gross_margin_5yr_avg, gross_margin_5yr_std,
		revenue_growth_3yr_cagr, proven_reserves_oz, probable_reserves_oz
		FROM fundamentals
		WHERE company_id = ?
		ORDER BY fiscal_year DESC, fiscal_quarter DESC
		LIMIT 1`, companyID)

	var f domain.Fundamentals
	err := row.Scan(
		&f.CompanyID, &f.FiscalYear, &f.FiscalQuarter,
		&f.TotalAssets, &f.TangibleAssets, &f.IntangibleAssets,
		&f.TotalRevenue, &f.DomesticRevenuePct, &f.ForeignRevenuePct,
		&f.CommodityRevenuePct, &f.PreciousMetalsRevPct,
		&f.TotalDebt, &f.FixedRateDebtPct, &f.FloatingRateDebtPct,
		&f.AvgDebtMaturityYears, &f.AvgInterestRate,
		&f.GrossMargin, &f.GrossMargin5YrAvg, &f.GrossMargin5YrStd,
		&f.RevenueGrowth3YrCAGR, &f.ProvenReservesOz, &f.ProbableReservesOz,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fundamentals for %s: %w", companyID, err)
	}
	return &f, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCompany(row rowScanner) (domain.Company, error) {
	var (
		c      domain.Company
		active int
	)
	err := row.Scan(&c.ID, &c.Ticker, &c.Name, &c.Sector, &c.Industry, &c.MarketCap, &active)
	if err != nil {
		return domain.Company{}, err
	}
	c.Active = active != 0
	return c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
