// Package handlers provides HTTP handlers for the universe API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/hedge/internal/domain"
	"github.com/aristath/hedge/internal/modules/universe"
)

// Handlers provides HTTP handlers for the universe module.
type Handlers struct {
	repo *universe.Repository
	log  zerolog.Logger
}

// NewHandlers creates a new universe handlers instance.
func NewHandlers(repo *universe.Repository, log zerolog.Logger) *Handlers {
	return &Handlers{
		repo: repo,
		log:  log.With().Str("module", "universe_handlers").Logger(),
	}
}

// CompanyRequest registers or updates a company in the universe.
type CompanyRequest struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	Sector    string  `json:"sector"`
	Industry  string  `json:"industry"`
	MarketCap float64 `json:"market_cap"`
	Active    *bool   `json:"active,omitempty"` // defaults to true
}

// HandleUpsertCompany handles PUT /api/universe/companies.
func (h *Handlers) HandleUpsertCompany(w http.ResponseWriter, r *http.Request) {
	var req CompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Ticker == "" {
		h.writeError(w, "Ticker is required", http.StatusBadRequest)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	company, err := h.repo.UpsertCompany(domain.Company{
		Ticker:    req.Ticker,
		Name:      req.Name,
		Sector:    req.Sector,
		Industry:  req.Industry,
		MarketCap: int64(req.MarketCap),
		Active:    active,
	})
	if err != nil {
		h.log.Error().Err(err).Str("ticker", req.Ticker).Msg("Failed to upsert company")
		h.writeError(w, "Failed to save company", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, company)
}

// HandleListCompanies handles GET /api/universe/companies.
func (h *Handlers) HandleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.repo.GetActiveCompanies()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list companies")
		h.writeError(w, "Failed to list companies", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, map[string]interface{}{"data": companies})
}

// HandleGetCompany handles GET /api/universe/companies/{ticker}.
func (h *Handlers) HandleGetCompany(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	company, err := h.repo.GetByTicker(ticker)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to get company")
		h.writeError(w, "Failed to get company", http.StatusInternalServerError)
		return
	}
	if company == nil {
		h.writeError(w, "Company not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, company)
}

// HandleInsertFundamentals handles POST /api/universe/companies/{ticker}/fundamentals.
// Periods are write-once; resubmitting an existing period is rejected.
func (h *Handlers) HandleInsertFundamentals(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	company, err := h.repo.GetByTicker(ticker)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Company lookup failed")
		h.writeError(w, "Company lookup failed", http.StatusInternalServerError)
		return
	}
	if company == nil {
		h.writeError(w, "Company not found", http.StatusNotFound)
		return
	}

	var f domain.Fundamentals
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if f.FiscalYear == 0 {
		h.writeError(w, "fiscal_year is required", http.StatusBadRequest)
		return
	}
	f.CompanyID = company.ID

	if err := h.repo.InsertFundamentals(f); err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Int("fiscal_year", f.FiscalYear).
			Msg("Failed to insert fundamentals")
		h.writeError(w, "Failed to save fundamentals, period may already exist", http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// HandleGetFundamentals handles GET /api/universe/companies/{ticker}/fundamentals.
func (h *Handlers) HandleGetFundamentals(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	company, err := h.repo.GetByTicker(ticker)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Company lookup failed")
		h.writeError(w, "Company lookup failed", http.StatusInternalServerError)
		return
	}
	if company == nil {
		h.writeError(w, "Company not found", http.StatusNotFound)
		return
	}

	f, err := h.repo.GetLatestFundamentals(company.ID)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to get fundamentals")
		h.writeError(w, "Failed to get fundamentals", http.StatusInternalServerError)
		return
	}
	if f == nil {
		h.writeError(w, "No fundamentals for company", http.StatusNotFound)
		return
	}

	h.writeJSON(w, f)
}

// RegisterRoutes registers all universe routes.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/universe", func(r chi.Router) {
		r.Put("/companies", h.HandleUpsertCompany)
		r.Get("/companies", h.HandleListCompanies)
		r.Get("/companies/{ticker}", h.HandleGetCompany)
		r.Post("/companies/{ticker}/fundamentals", h.HandleInsertFundamentals)
		r.Get("/companies/{ticker}/fundamentals", h.HandleGetFundamentals)
	})
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
