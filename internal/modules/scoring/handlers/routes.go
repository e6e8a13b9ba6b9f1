package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all scoring routes.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/scoring", func(r chi.Router) {
		r.Post("/score", h.HandleScore)  // Ad-hoc what-if scoring
		r.Post("/run", h.HandleRunBatch) // Trigger a batch run

		r.Get("/snapshots/{ticker}", h.HandleGetSnapshot)
		r.Get("/runs", h.HandleGetRuns)
		r.Get("/profiles", h.HandleGetProfiles)
	})
}
