// Package server provides the HTTP server and routing for Hedge.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/hedge/internal/config"
	"github.com/aristath/hedge/internal/database"
	portfoliohandlers "github.com/aristath/hedge/internal/modules/portfolio/handlers"
	scoringhandlers "github.com/aristath/hedge/internal/modules/scoring/handlers"
	screenerhandlers "github.com/aristath/hedge/internal/modules/screener/handlers"
	universehandlers "github.com/aristath/hedge/internal/modules/universe/handlers"
	"github.com/aristath/hedge/internal/scheduler"
)

// Config holds server configuration.
type Config struct {
	Log         zerolog.Logger
	Cfg         *config.Config
	UniverseDB  *database.DB
	ScoresDB    *database.DB
	PortfolioDB *database.DB

	Universe  *universehandlers.Handlers
	Scoring   *scoringhandlers.Handlers
	Portfolio *portfoliohandlers.Handlers
	Screener  *screenerhandlers.Handlers
}

// Server represents the HTTP server.
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	universeDB     *database.DB
	scoresDB       *database.DB
	portfolioDB    *database.DB
	systemHandlers *SystemHandlers

	universe  *universehandlers.Handlers
	scoring   *scoringhandlers.Handlers
	portfolio *portfoliohandlers.Handlers
	screener  *screenerhandlers.Handlers
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		log:         cfg.Log.With().Str("component", "server").Logger(),
		cfg:         cfg.Cfg,
		universeDB:  cfg.UniverseDB,
		scoresDB:    cfg.ScoresDB,
		portfolioDB: cfg.PortfolioDB,
		universe:    cfg.Universe,
		scoring:     cfg.Scoring,
		portfolio:   cfg.Portfolio,
		screener:    cfg.Screener,
	}

	s.systemHandlers = NewSystemHandlers(
		cfg.Log,
		cfg.Cfg.DataDir,
		cfg.UniverseDB,
		cfg.ScoresDB,
		cfg.PortfolioDB,
	)

	s.setupMiddleware(cfg.Cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// SetBatchScoringJob registers the batch scoring job for manual triggering
// via the API. Called after job registration in main.go.
func (s *Server) SetBatchScoringJob(job scheduler.Job) {
	s.systemHandlers.SetBatchScoringJob(job)
}

// setupMiddleware configures middleware.
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
			r.Get("/database/stats", s.systemHandlers.HandleDatabaseStats)
			r.Post("/jobs/batch-scoring", s.systemHandlers.HandleTriggerBatchScoring)
		})

		s.universe.RegisterRoutes(r)
		s.scoring.RegisterRoutes(r)
		s.portfolio.RegisterRoutes(r)
		s.screener.RegisterRoutes(r)
	})
}

// handleHealth reports liveness and database health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ok"
	databases := map[string]string{}
	for _, db := range []*database.DB{s.universeDB, s.scoresDB, s.portfolioDB} {
		if err := db.HealthCheck(ctx); err != nil {
			databases[db.Name()] = err.Error()
			status = "degraded"
		} else {
			databases[db.Name()] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"databases": databases,
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
