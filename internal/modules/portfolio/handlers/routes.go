package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/portfolios", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Delete("/", h.HandleDelete)

			r.Put("/holdings", h.HandleUpsertHolding)
			r.Delete("/holdings/{ticker}", h.HandleDeleteHolding)

			r.Get("/analyze", h.HandleAnalyze)
			r.Post("/scenario", h.HandleScenario)
		})
	})
}
