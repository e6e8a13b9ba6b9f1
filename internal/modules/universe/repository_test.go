package universe

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

func newUniverseDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(database.Config{
		Path:    fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano()),
		Profile: database.ProfileStandard,
		Name:    "universe",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())
	return db.Conn()
}

func i64(v int64) *int64 {
	return &v
}

func f64(v float64) *float64 {
	return &v
}

func TestUpsertCompanyAssignsAndKeepsID(t *testing.T) {
	repo := NewRepository(newUniverseDB(t), zerolog.Nop())

	created, err := repo.UpsertCompany(domain.Company{
		Ticker:    "NEM",
		Name:      "Newmont",
		Sector:    "Materials",
		Industry:  "Gold Mining",
		MarketCap: 40_000_000_000,
		Active:    true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	// Re-upserting the same ticker updates in place and keeps the identity.
	updated, err := repo.UpsertCompany(domain.Company{
		Ticker:    "NEM",
		Name:      "Newmont Corporation",
		Sector:    "Materials",
		Industry:  "Gold Mining",
		MarketCap: 45_000_000_000,
		Active:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	got, err := repo.GetByTicker("NEM")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Newmont Corporation", got.Name)
	assert.Equal(t, int64(45_000_000_000), got.MarketCap)
}

func TestGetByTickerUnknownReturnsNil(t *testing.T) {
	repo := NewRepository(newUniverseDB(t), zerolog.Nop())

	got, err := repo.GetByTicker("NOPE")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetActiveCompaniesFiltersAndOrders(t *testing.T) {
	repo := NewRepository(newUniverseDB(t), zerolog.Nop())

	for _, c := range []domain.Company{
		{Ticker: "XOM", Name: "Exxon", Sector: "Energy", Active: true},
		{Ticker: "DEAD", Name: "Delisted Corp", Sector: "Energy", Active: false},
		{Ticker: "CVX", Name: "Chevron", Sector: "Energy", Active: true},
	} {
		_, err := repo.UpsertCompany(c)
		require.NoError(t, err)
	}

	companies, err := repo.GetActiveCompanies()
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, "CVX", companies[0].Ticker)
	assert.Equal(t, "XOM", companies[1].Ticker)
}

func TestDeactivatedCompanyLeavesUniverse(t *testing.T) {
	repo := NewRepository(newUniverseDB(t), zerolog.Nop())

	c, err := repo.UpsertCompany(domain.Company{Ticker: "XOM", Name: "Exxon", Sector: "Energy", Active: true})
	require.NoError(t, err)

	c.Active = false
	_, err = repo.UpsertCompany(c)
	require.NoError(t, err)

	companies, err := repo.GetActiveCompanies()
	require.NoError(t, err)
	assert.Empty(t, companies)

	// Still reachable directly, just not part of the batch universe.
	got, err := repo.GetByTicker("XOM")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Active)
}

func TestFundamentalsRoundTrip(t *testing.T) {
	repo := NewRepository(newUniverseDB(t), zerolog.Nop())

	c, err := repo.UpsertCompany(domain.Company{Ticker: "XOM", Name: "Exxon", Sector: "Energy", Active: true})
	require.NoError(t, err)

	f := domain.Fundamentals{
		CompanyID:            c.ID,
		FiscalYear:           2025,
		FiscalQuarter:        4,
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
	require.NoError(t, repo.InsertFundamentals(f))

	got, err := repo.GetLatestFundamentals(c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, f, *got)
}

func TestInsertFundamentalsIsWriteOncePerPeriod(t *testing.T) {
	repo := NewRepository(newUniverseDB(t), zerolog.Nop())

	c, err := repo.UpsertCompany(domain.Company{Ticker: "XOM", Name: "Exxon", Sector: "Energy", Active: true})
	require.NoError(t, err)

	f := domain.Fundamentals{CompanyID: c.ID, FiscalYear: 2025, FiscalQuarter: 4, TotalAssets: i64(100)}
	require.NoError(t, repo.InsertFundamentals(f))

	// A correction must arrive as a new period, never an in-place rewrite.
	f.TotalAssets = i64(200)
	assert.Error(t, repo.InsertFundamentals(f))

	got, err := repo.GetLatestFundamentals(c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(100), *got.TotalAssets)
}

func TestGetLatestFundamentalsPicksNewestPeriod(t *testing.T) {
	repo := NewRepository(newUniverseDB(t), zerolog.Nop())

	c, err := repo.UpsertCompany(domain.Company{Ticker: "XOM", Name: "Exxon", Sector: "Energy", Active: true})
	require.NoError(t, err)

	periods := []struct {
		year    int
		quarter int
		assets  int64
	}{
		{2024, 4, 100},
		{2025, 2, 300},
		{2025, 1, 200},
	}
	for _, p := range periods {
		require.NoError(t, repo.InsertFundamentals(domain.Fundamentals{
			CompanyID:     c.ID,
			FiscalYear:    p.year,
			FiscalQuarter: p.quarter,
			TotalAssets:   i64(p.assets),
		}))
	}

	got, err := repo.GetLatestFundamentals(c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2025, got.FiscalYear)
	assert.Equal(t, 2, got.FiscalQuarter)
	assert.Equal(t, int64(300), *got.TotalAssets)
}

func TestGetLatestFundamentalsNilWhenNone(t *testing.T) {
	repo := NewRepository(newUniverseDB(t), zerolog.Nop())

	c, err := repo.UpsertCompany(domain.Company{Ticker: "XOM", Name: "Exxon", Sector: "Energy", Active: true})
	require.NoError(t, err)

	got, err := repo.GetLatestFundamentals(c.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
