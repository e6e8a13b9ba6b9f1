package screener

import "github.com/aristath/hedge/internal/domain"

// Preset is a named, curated query exposed to the UI.
type Preset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Query       Query  `json:"query"`
}

// Presets returns the curated screen list.
func Presets() []Preset {
	minPM := 70.0
	minHardAssets := 60.0
	minScore := 70.0
	minForeign := 50.0

	return []Preset{
		{
			ID:          "gold_bugs",
			Name:        "Gold Bugs",
			Description: "Companies with high precious metals exposure",
			Query: Query{
				Factors: map[domain.FactorKey]FactorRange{
					domain.FactorPreciousMetals: {Min: &minPM},
				},
			},
		},
		{
			ID:          "inflation_hedge",
			Name:        "Inflation Hedges",
			Description: "Strong pricing power and hard asset backing",
			Query: Query{
				MinScore: &minScore,
				Factors: map[domain.FactorKey]FactorRange{
					domain.FactorHardAssets: {Min: &minHardAssets},
				},
			},
		},
		{
			ID:          "global_revenue",
			Name:        "Global Revenue",
			Description: "High foreign revenue exposure",
			Query: Query{
				Factors: map[domain.FactorKey]FactorRange{
					domain.FactorForeignRevenue: {Min: &minForeign},
				},
			},
		},
		{
			ID:          "commodity_plays",
			Name:        "Commodity Plays",
			Description: "Oil, gas, and mining companies",
			Query: Query{
				Sectors: []string{
					"Oil & Gas E&P", "Oil & Gas Integrated",
					"Gold Mining", "Diversified Mining", "Copper Mining",
				},
			},
		},
	}
}
