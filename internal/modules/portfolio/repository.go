// Package portfolio manages portfolios and holdings and aggregates holding
// snapshots into portfolio-level survival analysis.
package portfolio

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Portfolio is a named collection of holdings. Aggregate scores are a
// derived view recomputed on read, never cached on the row.
type Portfolio struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Holding is one position in a portfolio, unique per (portfolio, company).
// Monetary fields use decimals; market value is externally priced.
type Holding struct {
	ID          string           `json:"id"`
	PortfolioID string           `json:"portfolio_id"`
	CompanyID   string           `json:"company_id"`
	Ticker      string           `json:"ticker"`
	Shares      decimal.Decimal  `json:"shares"`
	CostBasis   *decimal.Decimal `json:"cost_basis,omitempty"`
	MarketValue *decimal.Decimal `json:"market_value,omitempty"`
}

// Repository handles portfolio and holding database operations (portfolio.db).
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a portfolio repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "portfolio").Logger(),
	}
}

// Create inserts a new portfolio and returns it with its ID populated.
func (r *Repository) Create(name, description string) (Portfolio, error) {
	p := Portfolio{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
	_, err := r.db.Exec(`INSERT INTO portfolios (id, name, description) VALUES (?, ?, ?)`,
		p.ID, p.Name, p.Description)
	if err != nil {
		return Portfolio{}, fmt.Errorf("failed to create portfolio: %w", err)
	}
	return p, nil
}

// Get returns a portfolio by ID, or nil when unknown.
func (r *Repository) Get(id string) (*Portfolio, error) {
	row := r.db.QueryRow(`SELECT id, name, description, created_at, updated_at
		FROM portfolios WHERE id = ?`, id)

	var (
		p                    Portfolio
		createdAt, updatedAt string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio %s: %w", id, err)
	}
	p.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
	p.UpdatedAt, _ = time.Parse("2006-01-02 15:04:05", updatedAt)
	return &p, nil
}

// List returns all portfolios ordered by name.
func (r *Repository) List() ([]Portfolio, error) {
	rows, err := r.db.Query(`SELECT id, name, description, created_at, updated_at
		FROM portfolios ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer rows.Close()

	var portfolios []Portfolio
	for rows.Next() {
		var (
			p                    Portfolio
			createdAt, updatedAt string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		p.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
		p.UpdatedAt, _ = time.Parse("2006-01-02 15:04:05", updatedAt)
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

// Delete removes a portfolio and, via cascade, its holdings.
func (r *Repository) Delete(id string) error {
	if _, err := r.db.Exec(`DELETE FROM portfolios WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete portfolio %s: %w", id, err)
	}
	return nil
}

// UpsertHolding inserts or updates the holding for (portfolio, company).
func (r *Repository) UpsertHolding(h Holding) (Holding, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}

	_, err := r.db.Exec(`INSERT INTO holdings
		(id, portfolio_id, company_id, ticker, shares, cost_basis, market_value)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(portfolio_id, company_id) DO UPDATE SET
			shares = excluded.shares,
			cost_basis = COALESCE(excluded.cost_basis, holdings.cost_basis),
			market_value = COALESCE(excluded.market_value, holdings.market_value),
			updated_at = datetime('now')`,
		h.ID, h.PortfolioID, h.CompanyID, h.Ticker,
		h.Shares.String(), decimalOrNil(h.CostBasis), decimalOrNil(h.MarketValue),
	)
	if err != nil {
		return Holding{}, fmt.Errorf("failed to upsert holding %s/%s: %w", h.PortfolioID, h.Ticker, err)
	}
	return h, nil
}

// GetHoldings returns all holdings of a portfolio, ordered by ticker.
// Order matters only for display, never for scoring.
func (r *Repository) GetHoldings(portfolioID string) ([]Holding, error) {
	rows, err := r.db.Query(`SELECT id, portfolio_id, company_id, ticker, shares, cost_basis, market_value
		FROM holdings WHERE portfolio_id = ? ORDER BY ticker`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings for %s: %w", portfolioID, err)
	}
	defer rows.Close()

	var holdings []Holding
	for rows.Next() {
		var (
			h                      Holding
			shares                 string
			costBasis, marketValue sql.NullString
		)
		if err := rows.Scan(&h.ID, &h.PortfolioID, &h.CompanyID, &h.Ticker, &shares, &costBasis, &marketValue); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		h.Shares, err = decimal.NewFromString(shares)
		if err != nil {
			return nil, fmt.Errorf("invalid shares value for holding %s: %w", h.ID, err)
		}
		if h.CostBasis, err = parseNullDecimal(costBasis); err != nil {
			return nil, fmt.Errorf("invalid cost basis for holding %s: %w", h.ID, err)
		}
		if h.MarketValue, err = parseNullDecimal(marketValue); err != nil {
			return nil, fmt.Errorf("invalid market value for holding %s: %w", h.ID, err)
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

// DeleteHolding removes the holding for (portfolio, company).
func (r *Repository) DeleteHolding(portfolioID, companyID string) error {
	if _, err := r.db.Exec(`DELETE FROM holdings WHERE portfolio_id = ? AND company_id = ?`,
		portfolioID, companyID); err != nil {
		return fmt.Errorf("failed to delete holding %s/%s: %w", portfolioID, companyID, err)
	}
	return nil
}

func decimalOrNil(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func parseNullDecimal(v sql.NullString) (*decimal.Decimal, error) {
	if !v.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
