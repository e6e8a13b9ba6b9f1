package portfolio

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/aristath/hedge/internal/domain"
)

// ScenarioParams model one devaluation scenario's macro assumptions.
type ScenarioParams struct {
	InflationRate float64 `json:"inflation_rate"` // annual, as a fraction
	Years         float64 `json:"years"`
}

// DefaultScenarioParams returns the macro assumptions per scenario.
func DefaultScenarioParams() map[domain.Scenario]ScenarioParams {
	return map[domain.Scenario]ScenarioParams{
		domain.ScenarioGradual: {InflationRate: 0.05, Years: 5},
		domain.ScenarioRapid:   {InflationRate: 0.15, Years: 3},
		domain.ScenarioHyper:   {InflationRate: 0.50, Years: 2},
	}
}

// HoldingImpact projects one holding's value through a scenario.
type HoldingImpact struct {
	Ticker           string  `json:"ticker"`
	CurrentValue     float64 `json:"current_value"`
	ProjectedNominal float64 `json:"projected_nominal"`
	ProjectedReal    float64 `json:"projected_real"`
	RealChangePct    float64 `json:"real_change_pct"`
	SurvivalScore    float64 `json:"survival_score"`
}

// ScenarioImpact is the portfolio-level projection for one scenario.
type ScenarioImpact struct {
	Scenario            domain.Scenario `json:"scenario"`
	Params              ScenarioParams  `json:"parameters"`
	CumulativeInflation float64         `json:"cumulative_inflation"`
	CurrentValue        float64         `json:"current_value"`
	ProjectedNominal    float64         `json:"projected_nominal"`
	ProjectedReal       float64         `json:"projected_real"`
	RealChangePct       float64         `json:"real_change_pct"`
	Holdings            []HoldingImpact `json:"holdings"`
}

// RunScenario projects the portfolio's nominal and real value through a
// devaluation scenario. A holding's scenario score acts as its protection
// factor: score 100 keeps pace with the devaluation, score 0 is fully
// exposed.
func (s *Service) RunScenario(portfolioID string, scenario domain.Scenario, params ScenarioParams) (ScenarioImpact, error) {
	if params.Years <= 0 {
		defaults, ok := DefaultScenarioParams()[scenario]
		if !ok {
			return ScenarioImpact{}, &domain.AggregationError{
				PortfolioID: portfolioID,
				Reason:      fmt.Sprintf("unknown scenario %q", scenario),
			}
		}
		params = defaults
	}

	holdings, err := s.repo.GetHoldings(portfolioID)
	if err != nil {
		return ScenarioImpact{}, fmt.Errorf("failed to load holdings: %w", err)
	}
	if len(holdings) == 0 {
		return ScenarioImpact{}, &domain.AggregationError{PortfolioID: portfolioID, Reason: domain.ReasonNoHoldings}
	}

	cumulativeInflation := math.Pow(1+params.InflationRate, params.Years)

	impact := ScenarioImpact{
		Scenario:            scenario,
		Params:              params,
		CumulativeInflation: round4(cumulativeInflation),
	}

	for _, h := range holdings {
		value := decimal.Zero
		if h.MarketValue != nil {
			value = *h.MarketValue
		}
		valueF := value.InexactFloat64()

		// Unknown snapshots project at the neutral midpoint.
		score := 50.0
		if snap, err := s.snapshots.GetLatest(h.CompanyID); err == nil && snap != nil {
			score = snap.ScenarioScore(scenario)
		}

		protection := score / 100
		nominal := valueF * (1 + params.InflationRate*protection*params.Years)
		real := nominal / cumulativeInflation

		realChange := 0.0
		if valueF > 0 {
			realChange = (real/valueF - 1) * 100
		}

		impact.Holdings = append(impact.Holdings, HoldingImpact{
			Ticker:           h.Ticker,
			CurrentValue:     round2(valueF),
			ProjectedNominal: round2(nominal),
			ProjectedReal:    round2(real),
			RealChangePct:    round2(realChange),
			SurvivalScore:    score,
		})

		impact.CurrentValue += valueF
		impact.ProjectedNominal += nominal
		impact.ProjectedReal += real
	}

	if impact.CurrentValue > 0 {
		impact.RealChangePct = round2((impact.ProjectedReal/impact.CurrentValue - 1) * 100)
	}
	impact.CurrentValue = round2(impact.CurrentValue)
	impact.ProjectedNominal = round2(impact.ProjectedNominal)
	impact.ProjectedReal = round2(impact.ProjectedReal)

	return impact, nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
