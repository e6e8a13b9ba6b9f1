// Package handlers provides HTTP handlers for the portfolio API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aristath/hedge/internal/domain"
	"github.com/aristath/hedge/internal/modules/portfolio"
)

// CompanyLookup resolves tickers to companies.
type CompanyLookup interface {
	GetByTicker(ticker string) (*domain.Company, error)
}

// Handlers provides HTTP handlers for the portfolio module.
type Handlers struct {
	repo      *portfolio.Repository
	service   *portfolio.Service
	companies CompanyLookup
	log       zerolog.Logger
}

// NewHandlers creates a new portfolio handlers instance.
func NewHandlers(
	repo *portfolio.Repository,
	service *portfolio.Service,
	companies CompanyLookup,
	log zerolog.Logger,
) *Handlers {
	return &Handlers{
		repo:      repo,
		service:   service,
		companies: companies,
		log:       log.With().Str("module", "portfolio_handlers").Logger(),
	}
}

// CreateRequest creates a new portfolio.
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// HandleCreate handles POST /api/portfolios.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		h.writeError(w, "Name is required", http.StatusBadRequest)
		return
	}

	p, err := h.repo.Create(req.Name, req.Description)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create portfolio")
		h.writeError(w, "Failed to create portfolio", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

// HandleList handles GET /api/portfolios.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.repo.List()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list portfolios")
		h.writeError(w, "Failed to list portfolios", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, map[string]interface{}{"data": portfolios})
}

// HandleGet handles GET /api/portfolios/{id}.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.repo.Get(id)
	if err != nil {
		h.log.Error().Err(err).Str("portfolio_id", id).Msg("Failed to load portfolio")
		h.writeError(w, "Failed to load portfolio", http.StatusInternalServerError)
		return
	}
	if p == nil {
		h.writeError(w, "Portfolio not found", http.StatusNotFound)
		return
	}

	holdings, err := h.repo.GetHoldings(id)
	if err != nil {
		h.log.Error().Err(err).Str("portfolio_id", id).Msg("Failed to load holdings")
		h.writeError(w, "Failed to load holdings", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"portfolio": p,
		"holdings":  holdings,
	})
}

// HandleDelete handles DELETE /api/portfolios/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(id); err != nil {
		h.log.Error().Err(err).Str("portfolio_id", id).Msg("Failed to delete portfolio")
		h.writeError(w, "Failed to delete portfolio", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HoldingRequest adds or updates a holding.
type HoldingRequest struct {
	Ticker      string  `json:"ticker"`
	Shares      string  `json:"shares"`
	CostBasis   *string `json:"cost_basis,omitempty"`
	MarketValue *string `json:"market_value,omitempty"`
}

// HandleUpsertHolding handles PUT /api/portfolios/{id}/holdings.
func (h *Handlers) HandleUpsertHolding(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req HoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Ticker == "" {
		h.writeError(w, "Ticker is required", http.StatusBadRequest)
		return
	}

	shares, err := decimal.NewFromString(req.Shares)
	if err != nil || shares.IsNegative() {
		h.writeError(w, "Shares must be a non-negative decimal", http.StatusBadRequest)
		return
	}

	costBasis, err := parseOptionalDecimal(req.CostBasis)
	if err != nil {
		h.writeError(w, "Invalid cost_basis", http.StatusBadRequest)
		return
	}
	marketValue, err := parseOptionalDecimal(req.MarketValue)
	if err != nil {
		h.writeError(w, "Invalid market_value", http.StatusBadRequest)
		return
	}

	company, err := h.companies.GetByTicker(req.Ticker)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", req.Ticker).Msg("Company lookup failed")
		h.writeError(w, "Company lookup failed", http.StatusInternalServerError)
		return
	}
	if company == nil {
		h.writeError(w, "Unknown ticker", http.StatusNotFound)
		return
	}

	holding, err := h.repo.UpsertHolding(portfolio.Holding{
		PortfolioID: id,
		CompanyID:   company.ID,
		Ticker:      company.Ticker,
		Shares:      shares,
		CostBasis:   costBasis,
		MarketValue: marketValue,
	})
	if err != nil {
		h.log.Error().Err(err).Str("portfolio_id", id).Str("ticker", req.Ticker).Msg("Failed to upsert holding")
		h.writeError(w, "Failed to save holding", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, holding)
}

// HandleDeleteHolding handles DELETE /api/portfolios/{id}/holdings/{ticker}.
func (h *Handlers) HandleDeleteHolding(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ticker := chi.URLParam(r, "ticker")

	company, err := h.companies.GetByTicker(ticker)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Company lookup failed")
		h.writeError(w, "Company lookup failed", http.StatusInternalServerError)
		return
	}
	if company == nil {
		h.writeError(w, "Unknown ticker", http.StatusNotFound)
		return
	}

	if err := h.repo.DeleteHolding(id, company.ID); err != nil {
		h.log.Error().Err(err).Str("portfolio_id", id).Str("ticker", ticker).Msg("Failed to delete holding")
		h.writeError(w, "Failed to delete holding", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAnalyze handles GET /api/portfolios/{id}/analyze.
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	analysis, err := h.service.Analyze(id)
	if err != nil {
		var aggErr *domain.AggregationError
		if errors.As(err, &aggErr) {
			h.writeError(w, aggErr.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.log.Error().Err(err).Str("portfolio_id", id).Msg("Portfolio analysis failed")
		h.writeError(w, "Portfolio analysis failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, analysis)
}

// ScenarioRequest runs an inflation scenario against a portfolio.
type ScenarioRequest struct {
	Scenario      string   `json:"scenario"`
	InflationRate *float64 `json:"inflation_rate,omitempty"`
	Years         *float64 `json:"years,omitempty"`
}

// HandleScenario handles POST /api/portfolios/{id}/scenario.
func (h *Handlers) HandleScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Scenario == "" {
		h.writeError(w, "Scenario is required", http.StatusBadRequest)
		return
	}

	var params portfolio.ScenarioParams
	if req.InflationRate != nil {
		params.InflationRate = *req.InflationRate
	}
	if req.Years != nil {
		params.Years = *req.Years
	}

	impact, err := h.service.RunScenario(id, domain.Scenario(req.Scenario), params)
	if err != nil {
		var aggErr *domain.AggregationError
		if errors.As(err, &aggErr) {
			h.writeError(w, aggErr.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.log.Error().Err(err).Str("portfolio_id", id).Msg("Scenario projection failed")
		h.writeError(w, "Scenario projection failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, impact)
}

func parseOptionalDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (h *Handlers) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
