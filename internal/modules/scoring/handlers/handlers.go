// Package handlers provides HTTP handlers for the scoring API.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/hedge/internal/domain"
	"github.com/aristath/hedge/internal/modules/scoring"
)

// CompanyLookup resolves tickers to companies.
type CompanyLookup interface {
	GetByTicker(ticker string) (*domain.Company, error)
}

// SnapshotReader reads persisted snapshots and runs.
type SnapshotReader interface {
	GetLatest(companyID string) (*domain.Snapshot, error)
	GetRecentRuns(limit int) ([]scoring.Run, error)
}

// Handlers provides HTTP handlers for the scoring module.
type Handlers struct {
	builder   *scoring.SnapshotBuilder
	runner    *scoring.BatchRunner
	snapshots SnapshotReader
	companies CompanyLookup
	log       zerolog.Logger
}

// NewHandlers creates a new scoring handlers instance.
func NewHandlers(
	builder *scoring.SnapshotBuilder,
	runner *scoring.BatchRunner,
	snapshots SnapshotReader,
	companies CompanyLookup,
	log zerolog.Logger,
) *Handlers {
	return &Handlers{
		builder:   builder,
		runner:    runner,
		snapshots: snapshots,
		companies: companies,
		log:       log.With().Str("module", "scoring_handlers").Logger(),
	}
}

// ScoreRequest scores a company from inline fundamentals without persisting
// anything - the what-if surface for backtests and the UI. Weights optionally
// replaces the default headline profile for this one request.
type ScoreRequest struct {
	Ticker       string              `json:"ticker"`
	Sector       string              `json:"sector"`
	Industry     string              `json:"industry"`
	Fundamentals domain.Fundamentals `json:"fundamentals"`
	Weights      *scoring.Profile    `json:"weights,omitempty"`
}

// HandleScore handles POST /api/scoring/score.
func (h *Handlers) HandleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode score request")
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Ticker == "" {
		h.writeError(w, "Ticker is required", http.StatusBadRequest)
		return
	}

	company := domain.Company{
		Ticker:   req.Ticker,
		Sector:   req.Sector,
		Industry: req.Industry,
	}

	builder := h.builder
	if req.Weights != nil {
		custom := *req.Weights
		if custom.Name == "" {
			custom.Name = "custom"
		}
		var err error
		builder, err = h.builder.WithProfiles(
			custom,
			scoring.GradualProfile(),
			scoring.RapidProfile(),
			scoring.HyperProfile(),
		)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	snapshot, err := builder.Build(company, req.Fundamentals, time.Now().UTC())
	if err != nil {
		if domain.IsDataError(err) {
			h.writeError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.log.Error().Err(err).Str("ticker", req.Ticker).Msg("Ad-hoc scoring failed")
		h.writeError(w, "Scoring failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, snapshot)
}

// RunRequest triggers a batch scoring run.
type RunRequest struct {
	Date string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

// HandleRunBatch handles POST /api/scoring/run.
func (h *Handlers) HandleRunBatch(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			h.writeError(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	result, err := h.runner.Run(context.Background(), date)
	if err != nil {
		h.log.Error().Err(err).Msg("Batch scoring run failed")
		h.writeError(w, "Batch scoring run failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, result)
}

// HandleGetSnapshot handles GET /api/scoring/snapshots/{ticker}.
func (h *Handlers) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	company, err := h.companies.GetByTicker(ticker)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Company lookup failed")
		h.writeError(w, "Company lookup failed", http.StatusInternalServerError)
		return
	}
	if company == nil {
		h.writeError(w, "Company not found", http.StatusNotFound)
		return
	}

	snapshot, err := h.snapshots.GetLatest(company.ID)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Snapshot lookup failed")
		h.writeError(w, "Snapshot lookup failed", http.StatusInternalServerError)
		return
	}
	if snapshot == nil {
		h.writeError(w, "Company has not been scored yet", http.StatusNotFound)
		return
	}

	h.writeJSON(w, snapshot)
}

// HandleGetRuns handles GET /api/scoring/runs.
func (h *Handlers) HandleGetRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.snapshots.GetRecentRuns(20)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load scoring runs")
		h.writeError(w, "Failed to load scoring runs", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, map[string]interface{}{"data": runs})
}

// HandleGetProfiles handles GET /api/scoring/profiles.
func (h *Handlers) HandleGetProfiles(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]interface{}{
		"data": []scoring.Profile{
			scoring.CurrentProfile(),
			scoring.GradualProfile(),
			scoring.RapidProfile(),
			scoring.HyperProfile(),
		},
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
