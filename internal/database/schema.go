package database

// schemas maps database names to their DDL. Each statement is idempotent
// so Migrate can run on every startup.
var schemas = map[string]string{
	"universe":  universeSchema,
	"scores":    scoresSchema,
	"portfolio": portfolioSchema,
}

const universeSchema = `
CREATE TABLE IF NOT EXISTS companies (
    id          TEXT PRIMARY KEY,
    ticker      TEXT NOT NULL UNIQUE,
    name        TEXT NOT NULL DEFAULT '',
    sector      TEXT NOT NULL DEFAULT '',
    industry    TEXT NOT NULL DEFAULT '',
    market_cap  INTEGER NOT NULL DEFAULT 0,
    active      INTEGER NOT NULL DEFAULT 1,
    created_at  TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_companies_sector ON companies(sector);

CREATE TABLE IF NOT EXISTS fundamentals (
    company_id              TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
    fiscal_year             INTEGER NOT NULL,
    fiscal_quarter          INTEGER NOT NULL DEFAULT 0,
    total_assets            INTEGER,
    tangible_assets         INTEGER,
    intangible_assets       INTEGER,
    total_revenue           INTEGER,
    domestic_revenue_pct    REAL,
    foreign_revenue_pct     REAL,
    commodity_revenue_pct   REAL,
    precious_metals_revenue_pct REAL,
    total_debt              INTEGER,
    fixed_rate_debt_pct     REAL,
    floating_rate_debt_pct  REAL,
    avg_debt_maturity_years REAL,
    avg_interest_rate       REAL,
    gross_margin            REAL,
    gross_margin_5yr_avg    REAL,
    gross_margin_5yr_std    REAL,
    revenue_growth_3yr_cagr REAL,
    proven_reserves_oz      INTEGER,
    probable_reserves_oz    INTEGER,
    created_at              TEXT NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY (company_id, fiscal_year, fiscal_quarter)
);
`

const scoresSchema = `
CREATE TABLE IF NOT EXISTS score_snapshots (
    company_id         TEXT NOT NULL,
    ticker             TEXT NOT NULL,
    sector             TEXT NOT NULL DEFAULT '',
    market_cap         INTEGER NOT NULL DEFAULT 0,
    score_date         TEXT NOT NULL,
    total_score        REAL NOT NULL,
    confidence         REAL NOT NULL,
    tier               TEXT NOT NULL,
    hard_assets        REAL NOT NULL,
    precious_metals    REAL NOT NULL,
    commodities        REAL NOT NULL,
    foreign_revenue    REAL NOT NULL,
    pricing_power      REAL NOT NULL,
    debt_structure     REAL NOT NULL,
    essential_services REAL NOT NULL,
    scenario_gradual   REAL NOT NULL,
    scenario_rapid     REAL NOT NULL,
    scenario_hyper     REAL NOT NULL,
    scoring_version    TEXT NOT NULL,
    created_at         TEXT NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY (company_id, score_date)
);
CREATE INDEX IF NOT EXISTS idx_snapshots_date ON score_snapshots(score_date);

CREATE TABLE IF NOT EXISTS scoring_runs (
    id               TEXT PRIMARY KEY,
    run_date         TEXT NOT NULL,
    status           TEXT NOT NULL,
    companies_scored INTEGER NOT NULL DEFAULT 0,
    companies_failed INTEGER NOT NULL DEFAULT 0,
    avg_score        REAL,
    median_score     REAL,
    duration_ms      INTEGER,
    scoring_version  TEXT NOT NULL DEFAULT '',
    error_message    TEXT NOT NULL DEFAULT '',
    started_at       TEXT NOT NULL,
    completed_at     TEXT
);
CREATE INDEX IF NOT EXISTS idx_runs_date ON scoring_runs(run_date);
`

const portfolioSchema = `
CREATE TABLE IF NOT EXISTS portfolios (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS holdings (
    id           TEXT PRIMARY KEY,
    portfolio_id TEXT NOT NULL REFERENCES portfolios(id) ON DELETE CASCADE,
    company_id   TEXT NOT NULL,
    ticker       TEXT NOT NULL,
    shares       TEXT NOT NULL,
    cost_basis   TEXT,
    market_value TEXT,
    added_at     TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at   TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE (portfolio_id, company_id)
);
CREATE INDEX IF NOT EXISTS idx_holdings_portfolio ON holdings(portfolio_id);
`
