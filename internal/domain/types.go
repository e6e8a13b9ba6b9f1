// Package domain contains the core types shared across modules.
// Domain types are pure data - no infrastructure dependencies.
package domain

import "time"

// Company identifies a scored security and carries the classification
// used to select sector-based base rates during scoring.
type Company struct {
	ID        string `json:"id"`
	Ticker    string `json:"ticker"`
	Name      string `json:"name"`
	Sector    string `json:"sector"`
	Industry  string `json:"industry"`
	MarketCap int64  `json:"market_cap"`
	Active    bool   `json:"active"`
}

// Fundamentals holds per-company financial facts for one fiscal period.
// All statement-derived fields are optional: a nil pointer means the value
// was not reported, and scorers fall back to documented defaults.
// A period is immutable once published - corrections arrive as a new period.
type Fundamentals struct {
	CompanyID     string `json:"company_id"`
	FiscalYear    int    `json:"fiscal_year"`
	FiscalQuarter int    `json:"fiscal_quarter"`

	// Balance sheet
	TotalAssets      *int64 `json:"total_assets,omitempty"`
	TangibleAssets   *int64 `json:"tangible_assets,omitempty"`
	IntangibleAssets *int64 `json:"intangible_assets,omitempty"`

	// Revenue breakdown
	TotalRevenue           *int64   `json:"total_revenue,omitempty"`
	DomesticRevenuePct     *float64 `json:"domestic_revenue_pct,omitempty"`
	ForeignRevenuePct      *float64 `json:"foreign_revenue_pct,omitempty"`
	CommodityRevenuePct    *float64 `json:"commodity_revenue_pct,omitempty"`
	PreciousMetalsRevPct   *float64 `json:"precious_metals_revenue_pct,omitempty"`

	// Debt structure
	TotalDebt            *int64   `json:"total_debt,omitempty"`
	FixedRateDebtPct     *float64 `json:"fixed_rate_debt_pct,omitempty"`
	FloatingRateDebtPct  *float64 `json:"floating_rate_debt_pct,omitempty"`
	AvgDebtMaturityYears *float64 `json:"avg_debt_maturity_years,omitempty"`
	AvgInterestRate      *float64 `json:"avg_interest_rate,omitempty"`

	// Profitability and stability
	GrossMargin        *float64 `json:"gross_margin,omitempty"`
	GrossMargin5YrAvg  *float64 `json:"gross_margin_5yr_avg,omitempty"`
	GrossMargin5YrStd  *float64 `json:"gross_margin_5yr_std,omitempty"`
	RevenueGrowth3YrCAGR *float64 `json:"revenue_growth_3yr_cagr,omitempty"`

	// Mining specific
	ProvenReservesOz   *int64 `json:"proven_reserves_oz,omitempty"`
	ProbableReservesOz *int64 `json:"probable_reserves_oz,omitempty"`
}

// FactorKey identifies one of the seven resilience factors.
type FactorKey string

const (
	FactorHardAssets        FactorKey = "hard_assets"
	FactorPreciousMetals    FactorKey = "precious_metals"
	FactorCommodities       FactorKey = "commodities"
	FactorForeignRevenue    FactorKey = "foreign_revenue"
	FactorPricingPower      FactorKey = "pricing_power"
	FactorDebtStructure     FactorKey = "debt_structure"
	FactorEssentialServices FactorKey = "essential_services"
)

// FactorKeys lists all factor keys in canonical display order.
func FactorKeys() []FactorKey {
	return []FactorKey{
		FactorHardAssets,
		FactorPreciousMetals,
		FactorCommodities,
		FactorForeignRevenue,
		FactorPricingPower,
		FactorDebtStructure,
		FactorEssentialServices,
	}
}

// FactorScores holds the seven factor scores, each in [0,100].
// The struct shape guarantees exactly the seven defined factors exist.
type FactorScores struct {
	HardAssets        float64 `json:"hard_assets"`
	PreciousMetals    float64 `json:"precious_metals"`
	Commodities       float64 `json:"commodities"`
	ForeignRevenue    float64 `json:"foreign_revenue"`
	PricingPower      float64 `json:"pricing_power"`
	DebtStructure     float64 `json:"debt_structure"`
	EssentialServices float64 `json:"essential_services"`
}

// Get returns the score for a factor key. Unknown keys return 0.
func (f FactorScores) Get(key FactorKey) float64 {
	switch key {
	case FactorHardAssets:
		return f.HardAssets
	case FactorPreciousMetals:
		return f.PreciousMetals
	case FactorCommodities:
		return f.Commodities
	case FactorForeignRevenue:
		return f.ForeignRevenue
	case FactorPricingPower:
		return f.PricingPower
	case FactorDebtStructure:
		return f.DebtStructure
	case FactorEssentialServices:
		return f.EssentialServices
	}
	return 0
}

// ToMap returns the scores keyed by factor, in a fresh map.
func (f FactorScores) ToMap() map[FactorKey]float64 {
	m := make(map[FactorKey]float64, 7)
	for _, k := range FactorKeys() {
		m[k] = f.Get(k)
	}
	return m
}

// Tier is the ordered resilience classification derived from a composite
// score. Ordering matters for sort and filter consumers: Excellent ranks
// highest, Critical lowest.
type Tier string

const (
	TierExcellent  Tier = "excellent"
	TierStrong     Tier = "strong"
	TierModerate   Tier = "moderate"
	TierVulnerable Tier = "vulnerable"
	TierCritical   Tier = "critical"
)

// Rank returns the tier's position in the total ordering.
// Higher rank means more resilient.
func (t Tier) Rank() int {
	switch t {
	case TierExcellent:
		return 5
	case TierStrong:
		return 4
	case TierModerate:
		return 3
	case TierVulnerable:
		return 2
	case TierCritical:
		return 1
	}
	return 0
}

// Scenario names a devaluation severity profile.
type Scenario string

const (
	ScenarioCurrent Scenario = "current"
	ScenarioGradual Scenario = "gradual"
	ScenarioRapid   Scenario = "rapid"
	ScenarioHyper   Scenario = "hyper"
)

// Snapshot is the immutable, dated output of scoring one company once.
// (CompanyID, ScoreDate) is the unique key; re-scoring the same key
// upserts rather than duplicating.
type Snapshot struct {
	CompanyID  string    `json:"company_id"`
	Ticker     string    `json:"ticker"`
	Sector     string    `json:"sector"`
	MarketCap  int64     `json:"market_cap"`
	ScoreDate  time.Time `json:"score_date"`
	TotalScore float64   `json:"total_score"`
	Confidence float64   `json:"confidence"`
	Tier       Tier      `json:"tier"`

	Factors FactorScores `json:"factors"`

	ScenarioGradual float64 `json:"scenario_gradual"`
	ScenarioRapid   float64 `json:"scenario_rapid"`
	ScenarioHyper   float64 `json:"scenario_hyper"`

	ScoringVersion string `json:"scoring_version"`
}

// ScenarioScore returns the composite for a named scenario.
// The current scenario maps to the total score.
func (s Snapshot) ScenarioScore(sc Scenario) float64 {
	switch sc {
	case ScenarioGradual:
		return s.ScenarioGradual
	case ScenarioRapid:
		return s.ScenarioRapid
	case ScenarioHyper:
		return s.ScenarioHyper
	}
	return s.TotalScore
}
