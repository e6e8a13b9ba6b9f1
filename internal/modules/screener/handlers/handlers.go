// Package handlers provides HTTP handlers for the screener API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/hedge/internal/domain"
	"github.com/aristath/hedge/internal/modules/screener"
)

// SnapshotProvider supplies the latest snapshot per company.
type SnapshotProvider interface {
	GetAllLatest() ([]domain.Snapshot, error)
}

// Handlers provides HTTP handlers for the screener module.
type Handlers struct {
	snapshots SnapshotProvider
	log       zerolog.Logger
}

// NewHandlers creates a new screener handlers instance.
func NewHandlers(snapshots SnapshotProvider, log zerolog.Logger) *Handlers {
	return &Handlers{
		snapshots: snapshots,
		log:       log.With().Str("module", "screener_handlers").Logger(),
	}
}

// HandleScreen handles POST /api/screener.
func (h *Handlers) HandleScreen(w http.ResponseWriter, r *http.Request) {
	var q screener.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	snapshots, err := h.snapshots.GetAllLatest()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load snapshots for screening")
		h.writeError(w, "Failed to load snapshots", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, screener.Run(snapshots, q))
}

// HandleGetPresets handles GET /api/screener/presets.
func (h *Handlers) HandleGetPresets(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]interface{}{"data": screener.Presets()})
}

// RegisterRoutes registers all screener routes.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/screener", func(r chi.Router) {
		r.Post("/", h.HandleScreen)
		r.Get("/presets", h.HandleGetPresets)
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
