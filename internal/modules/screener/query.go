// Package screener evaluates composable filter queries against a snapshot
// collection. Evaluation is a pure function of (query, snapshots): no hidden
// state, safe to re-run for pagination.
package screener

import (
	"sort"

	"github.com/aristath/hedge/internal/domain"
)

// SortKey selects the primary sort field.
type SortKey string

const (
	SortByScore     SortKey = "score"
	SortByTicker    SortKey = "ticker"
	SortByMarketCap SortKey = "market_cap"
)

// FactorRange bounds one factor's score. A nil bound means unbounded, so
// only factors with non-default ranges participate in filtering.
type FactorRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Query is an immutable screening predicate plus sort and pagination.
// All filters are conjunctive (AND).
type Query struct {
	MinScore     *float64                          `json:"min_score,omitempty"`
	MaxScore     *float64                          `json:"max_score,omitempty"`
	Tiers        []domain.Tier                     `json:"tiers,omitempty"`
	Sectors      []string                          `json:"sectors,omitempty"`
	MinMarketCap *int64                            `json:"min_market_cap,omitempty"`
	MaxMarketCap *int64                            `json:"max_market_cap,omitempty"`
	Factors      map[domain.FactorKey]FactorRange  `json:"factors,omitempty"`

	SortBy         SortKey `json:"sort_by,omitempty"`
	SortDescending bool    `json:"sort_descending,omitempty"`
	Page           int     `json:"page,omitempty"`
	Limit          int     `json:"limit,omitempty"`
}

// Pagination describes the returned result page.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// FilterSummary counts matches against the full universe.
type FilterSummary struct {
	Matched       int `json:"matched"`
	TotalUniverse int `json:"total_universe"`
}

// Result is one evaluated page plus its metadata.
type Result struct {
	Data          []domain.Snapshot `json:"data"`
	Pagination    Pagination        `json:"pagination"`
	FilterSummary FilterSummary     `json:"filter_summary"`
}

// Run evaluates the query against a snapshot collection and returns one
// result page. The input slice is never mutated.
func Run(snapshots []domain.Snapshot, q Query) Result {
	matched := make([]domain.Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if q.matches(s) {
			matched = append(matched, s)
		}
	}

	sortSnapshots(matched, q.SortBy, q.SortDescending)

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 50
	}

	total := len(matched)
	pages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return Result{
		Data: matched[start:end],
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
		FilterSummary: FilterSummary{
			Matched:       total,
			TotalUniverse: len(snapshots),
		},
	}
}

// matches applies every active filter conjunctively.
func (q Query) matches(s domain.Snapshot) bool {
	if q.MinScore != nil && s.TotalScore < *q.MinScore {
		return false
	}
	if q.MaxScore != nil && s.TotalScore > *q.MaxScore {
		return false
	}
	if len(q.Tiers) > 0 && !containsTier(q.Tiers, s.Tier) {
		return false
	}
	if len(q.Sectors) > 0 && !containsString(q.Sectors, s.Sector) {
		return false
	}
	if q.MinMarketCap != nil && s.MarketCap < *q.MinMarketCap {
		return false
	}
	if q.MaxMarketCap != nil && s.MarketCap > *q.MaxMarketCap {
		return false
	}
	for key, bounds := range q.Factors {
		value := s.Factors.Get(key)
		if bounds.Min != nil && value < *bounds.Min {
			return false
		}
		if bounds.Max != nil && value > *bounds.Max {
			return false
		}
	}
	return true
}

// sortSnapshots orders results by the primary key with a fixed
// ticker-ascending tie-break, so equal primary keys sort deterministically.
func sortSnapshots(snapshots []domain.Snapshot, key SortKey, descending bool) {
	sort.SliceStable(snapshots, func(i, j int) bool {
		a, b := snapshots[i], snapshots[j]
		var less, equal bool
		switch key {
		case SortByTicker:
			less, equal = a.Ticker < b.Ticker, a.Ticker == b.Ticker
		case SortByMarketCap:
			less, equal = a.MarketCap < b.MarketCap, a.MarketCap == b.MarketCap
		default:
			less, equal = a.TotalScore < b.TotalScore, a.TotalScore == b.TotalScore
		}
		if equal {
			return a.Ticker < b.Ticker
		}
		if descending {
			return !less
		}
		return less
	})
}

func containsTier(tiers []domain.Tier, t domain.Tier) bool {
	for _, tier := range tiers {
		if tier == t {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
