package portfolio

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aristath/hedge/internal/domain"
)

// SnapshotProvider supplies score snapshots for aggregation.
// Defined here to avoid an import cycle with the scoring package.
type SnapshotProvider interface {
	GetLatest(companyID string) (*domain.Snapshot, error)
	GetAllLatest() ([]domain.Snapshot, error)
}

// HoldingAnalysis is one holding resolved to value, weight and scores.
type HoldingAnalysis struct {
	Ticker   string          `json:"ticker"`
	Value    decimal.Decimal `json:"value"`
	Weight   float64         `json:"weight"`
	Score    float64         `json:"score"`
	Tier     domain.Tier     `json:"tier"`
	Rapid    float64         `json:"scenario_rapid"`
	Hyper    float64         `json:"scenario_hyper"`
	Factors  domain.FactorScores `json:"factors"`
}

// FactorContribution is one factor's value-weighted average across the
// portfolio, annotated with the share of portfolio value held in companies
// strong in that factor. Feeds the radar/breakdown display.
type FactorContribution struct {
	Factor      domain.FactorKey `json:"factor"`
	WeightedAvg float64          `json:"weighted_avg"`
	StrongShare float64          `json:"strong_share"`
}

// SectorWeight is one sector's share of total portfolio value.
type SectorWeight struct {
	Sector   string          `json:"sector"`
	Value    decimal.Decimal `json:"value"`
	Weight   float64         `json:"weight"`
	AvgScore float64         `json:"avg_score"`
}

// ConcentrationWarning flags a sector that is both large and weak.
type ConcentrationWarning struct {
	Sector   string  `json:"sector"`
	Weight   float64 `json:"weight"`
	AvgScore float64 `json:"avg_score"`
}

// Recommendation is one advisory action from the policy rules.
type Recommendation struct {
	Action string  `json:"action"` // "reduce" or "add"
	Ticker string  `json:"ticker"`
	Reason string  `json:"reason"`
	Weight float64 `json:"weight,omitempty"`
	Score  float64 `json:"score,omitempty"`
}

// Analysis is the full portfolio aggregation result. It is a derived view:
// recomputed from current holdings and latest snapshots on every call,
// never cached.
type Analysis struct {
	PortfolioID     string                      `json:"portfolio_id"`
	HoldingsCount   int                         `json:"holdings_count"`
	TotalValue      decimal.Decimal             `json:"total_value"`
	OverallScore    float64                     `json:"overall_score"`
	ScenarioScores  map[domain.Scenario]float64 `json:"scenario_scores"`
	Holdings        []HoldingAnalysis           `json:"holdings"`
	FactorBreakdown []FactorContribution        `json:"factor_breakdown"`
	SectorAllocation []SectorWeight             `json:"sector_allocation"`
	Concentrations  []ConcentrationWarning      `json:"concentrations"`
	Recommendations []Recommendation            `json:"recommendations"`
}

// Service aggregates holdings into portfolio-level survival analysis.
type Service struct {
	repo      *Repository
	snapshots SnapshotProvider
	policy    Policy
	log       zerolog.Logger
}

// NewService creates a portfolio service.
func NewService(repo *Repository, snapshots SnapshotProvider, policy Policy, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		snapshots: snapshots,
		policy:    policy,
		log:       log.With().Str("service", "portfolio").Logger(),
	}
}

// Analyze computes the value-weighted survival analysis for a portfolio.
//
// Failure conditions surface as AggregationError so callers can render
// "insufficient data" instead of a blank score: no holdings, zero total
// value, or a holding with no resolvable snapshot.
func (s *Service) Analyze(portfolioID string) (Analysis, error) {
	holdings, err := s.repo.GetHoldings(portfolioID)
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to load holdings: %w", err)
	}
	if len(holdings) == 0 {
		return Analysis{}, &domain.AggregationError{PortfolioID: portfolioID, Reason: domain.ReasonNoHoldings}
	}

	type resolved struct {
		holding  Holding
		snapshot domain.Snapshot
		value    decimal.Decimal
	}

	totalValue := decimal.Zero
	entries := make([]resolved, 0, len(holdings))
	for _, h := range holdings {
		snap, err := s.snapshots.GetLatest(h.CompanyID)
		if err != nil {
			return Analysis{}, fmt.Errorf("failed to load snapshot for %s: %w", h.Ticker, err)
		}
		if snap == nil {
			return Analysis{}, &domain.AggregationError{
				PortfolioID: portfolioID,
				Reason:      domain.ReasonNoSnapshot + " (" + h.Ticker + ")",
			}
		}
		value := decimal.Zero
		if h.MarketValue != nil {
			value = *h.MarketValue
		}
		totalValue = totalValue.Add(value)
		entries = append(entries, resolved{holding: h, snapshot: *snap, value: value})
	}

	if totalValue.IsZero() {
		return Analysis{}, &domain.AggregationError{PortfolioID: portfolioID, Reason: domain.ReasonZeroValue}
	}

	totalF := totalValue.InexactFloat64()

	analysis := Analysis{
		PortfolioID:   portfolioID,
		HoldingsCount: len(holdings),
		TotalValue:    totalValue,
		ScenarioScores: map[domain.Scenario]float64{},
	}

	// Single pass accumulators; everything divides by total value at the end.
	var (
		weightedTotal  float64
		scenarioTotals = map[domain.Scenario]float64{}
		factorTotals   = map[domain.FactorKey]float64{}
		strongValue    = map[domain.FactorKey]float64{}
		sectorValues   = map[string]decimal.Decimal{}
		sectorScores   = map[string][]float64{}
	)

	for _, e := range entries {
		valueF := e.value.InexactFloat64()
		weight := valueF / totalF

		weightedTotal += e.snapshot.TotalScore * weight
		for _, sc := range []domain.Scenario{domain.ScenarioGradual, domain.ScenarioRapid, domain.ScenarioHyper} {
			scenarioTotals[sc] += e.snapshot.ScenarioScore(sc) * weight
		}
		for _, key := range domain.FactorKeys() {
			score := e.snapshot.Factors.Get(key)
			factorTotals[key] += score * weight
			if score >= s.policy.StrongFactorCutoff {
				strongValue[key] += weight
			}
		}

		sector := e.snapshot.Sector
		sectorValues[sector] = sectorValues[sector].Add(e.value)
		sectorScores[sector] = append(sectorScores[sector], e.snapshot.ScenarioScore(domain.ScenarioRapid))

		analysis.Holdings = append(analysis.Holdings, HoldingAnalysis{
			Ticker:  e.holding.Ticker,
			Value:   e.value,
			Weight:  round2(weight * 100),
			Score:   e.snapshot.TotalScore,
			Tier:    e.snapshot.Tier,
			Rapid:   e.snapshot.ScenarioRapid,
			Hyper:   e.snapshot.ScenarioHyper,
			Factors: e.snapshot.Factors,
		})
	}

	analysis.OverallScore = round2(weightedTotal)
	for sc, v := range scenarioTotals {
		analysis.ScenarioScores[sc] = round2(v)
	}

	for _, key := range domain.FactorKeys() {
		analysis.FactorBreakdown = append(analysis.FactorBreakdown, FactorContribution{
			Factor:      key,
			WeightedAvg: round2(factorTotals[key]),
			StrongShare: round2(strongValue[key] * 100),
		})
	}

	// Holdings sorted strongest first for display.
	sort.SliceStable(analysis.Holdings, func(i, j int) bool {
		if analysis.Holdings[i].Score == analysis.Holdings[j].Score {
			return analysis.Holdings[i].Ticker < analysis.Holdings[j].Ticker
		}
		return analysis.Holdings[i].Score > analysis.Holdings[j].Score
	})

	analysis.SectorAllocation = s.sectorAllocation(sectorValues, sectorScores, totalF)
	analysis.Concentrations = s.concentrations(analysis.SectorAllocation)

	recommendations, err := s.recommendations(analysis.Holdings, sectorValues)
	if err != nil {
		return Analysis{}, err
	}
	analysis.Recommendations = recommendations

	return analysis, nil
}

// sectorAllocation aggregates sector value shares, largest first.
func (s *Service) sectorAllocation(values map[string]decimal.Decimal, scores map[string][]float64, totalF float64) []SectorWeight {
	allocation := make([]SectorWeight, 0, len(values))
	for sector, value := range values {
		avg := 0.0
		for _, score := range scores[sector] {
			avg += score
		}
		if n := len(scores[sector]); n > 0 {
			avg /= float64(n)
		}
		allocation = append(allocation, SectorWeight{
			Sector:   sector,
			Value:    value,
			Weight:   round2(value.InexactFloat64() / totalF * 100),
			AvgScore: round2(avg),
		})
	}
	sort.SliceStable(allocation, func(i, j int) bool {
		if allocation[i].Weight == allocation[j].Weight {
			return allocation[i].Sector < allocation[j].Sector
		}
		return allocation[i].Weight > allocation[j].Weight
	})
	return allocation
}

// concentrations flags sectors that are both large and weak. A large but
// strong sector is deliberate positioning, not a risk warning.
func (s *Service) concentrations(allocation []SectorWeight) []ConcentrationWarning {
	var warnings []ConcentrationWarning
	for _, sw := range allocation {
		if sw.Weight/100 > s.policy.ConcentrationThreshold && sw.AvgScore < s.policy.VulnerabilityScore {
			warnings = append(warnings, ConcentrationWarning{
				Sector:   sw.Sector,
				Weight:   sw.Weight,
				AvgScore: sw.AvgScore,
			})
		}
	}
	return warnings
}

// recommendations applies the policy rules: reduce weak-and-heavy holdings,
// add top hyper-scenario names from sectors the portfolio does not hold.
func (s *Service) recommendations(holdings []HoldingAnalysis, sectorValues map[string]decimal.Decimal) ([]Recommendation, error) {
	var recs []Recommendation

	heldTickers := make(map[string]bool, len(holdings))
	for _, h := range holdings {
		heldTickers[h.Ticker] = true

		if h.Rapid < s.policy.ReduceScoreFloor && h.Weight/100 >= s.policy.ReduceMinWeight {
			recs = append(recs, Recommendation{
				Action: "reduce",
				Ticker: h.Ticker,
				Reason: fmt.Sprintf("rapid devaluation score %.1f below %.0f at %.1f%% of portfolio", h.Rapid, s.policy.ReduceScoreFloor, h.Weight),
				Weight: h.Weight,
				Score:  h.Rapid,
			})
		}
	}

	universe, err := s.snapshots.GetAllLatest()
	if err != nil {
		return nil, fmt.Errorf("failed to load universe snapshots: %w", err)
	}

	sort.SliceStable(universe, func(i, j int) bool {
		if universe[i].ScenarioHyper == universe[j].ScenarioHyper {
			return universe[i].Ticker < universe[j].Ticker
		}
		return universe[i].ScenarioHyper > universe[j].ScenarioHyper
	})

	added := 0
	usedSectors := make(map[string]bool)
	for _, snap := range universe {
		if added >= s.policy.MaxAddCandidates {
			break
		}
		if snap.ScenarioHyper < s.policy.AddScoreFloor {
			break // sorted descending, nothing further qualifies
		}
		if heldTickers[snap.Ticker] || usedSectors[snap.Sector] {
			continue
		}
		if _, held := sectorValues[snap.Sector]; held {
			continue // only suggest sectors the portfolio lacks
		}
		usedSectors[snap.Sector] = true
		added++
		recs = append(recs, Recommendation{
			Action: "add",
			Ticker: snap.Ticker,
			Reason: fmt.Sprintf("hyperinflation score %.1f adds %s exposure the portfolio lacks", snap.ScenarioHyper, snap.Sector),
			Score:  snap.ScenarioHyper,
		})
	}

	return recs, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
