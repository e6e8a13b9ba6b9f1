// Hedge scores companies on how well they would survive sustained currency
// debasement, aggregates those scores over portfolios and serves the results
// over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/hedge/internal/config"
	"github.com/aristath/hedge/internal/database"
	"github.com/aristath/hedge/internal/modules/portfolio"
	portfoliohandlers "github.com/aristath/hedge/internal/modules/portfolio/handlers"
	"github.com/aristath/hedge/internal/modules/scoring"
	scoringhandlers "github.com/aristath/hedge/internal/modules/scoring/handlers"
	"github.com/aristath/hedge/internal/modules/scoring/scorers"
	screenerhandlers "github.com/aristath/hedge/internal/modules/screener/handlers"
	"github.com/aristath/hedge/internal/modules/universe"
	universehandlers "github.com/aristath/hedge/internal/modules/universe/handlers"
	"github.com/aristath/hedge/internal/scheduler"
	"github.com/aristath/hedge/internal/server"
	"github.com/aristath/hedge/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Msg("Starting Hedge")

	// Databases
	universeDB, err := database.New(database.Config{
		Path:    cfg.DatabasePath("universe"),
		Profile: database.ProfileStandard,
		Name:    "universe",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open universe database")
	}
	defer universeDB.Close()

	scoresDB, err := database.New(database.Config{
		Path:    cfg.DatabasePath("scores"),
		Profile: database.ProfileScores,
		Name:    "scores",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open scores database")
	}
	defer scoresDB.Close()

	portfolioDB, err := database.New(database.Config{
		Path:    cfg.DatabasePath("portfolio"),
		Profile: database.ProfileStandard,
		Name:    "portfolio",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open portfolio database")
	}
	defer portfolioDB.Close()

	for _, db := range []*database.DB{universeDB, scoresDB, portfolioDB} {
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Str("database", db.Name()).Msg("Failed to migrate database")
		}
	}

	// Repositories
	universeRepo := universe.NewRepository(universeDB.Conn(), log)
	scoreRepo := scoring.NewRepository(scoresDB.Conn(), log)
	portfolioRepo := portfolio.NewRepository(portfolioDB.Conn(), log)

	// Scoring engine
	builderCfg := scoring.DefaultBuilderConfig()
	builderCfg.ConfidenceFloor = cfg.ConfidenceFloor
	builder, err := scoring.NewSnapshotBuilder(scorers.DefaultConfig(), scoring.DefaultBands(), builderCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid scoring configuration")
	}

	batchCfg := scoring.DefaultBatchConfig()
	batchCfg.Workers = cfg.BatchWorkers
	batchCfg.FailureThreshold = cfg.FailureThreshold
	runner := scoring.NewBatchRunner(builder, universeRepo, scoreRepo, batchCfg, log)

	// Portfolio aggregation
	portfolioService := portfolio.NewService(portfolioRepo, scoreRepo, portfolio.DefaultPolicy(), log)

	// HTTP server
	srv := server.New(server.Config{
		Log:         log,
		Cfg:         cfg,
		UniverseDB:  universeDB,
		ScoresDB:    scoresDB,
		PortfolioDB: portfolioDB,
		Universe:    universehandlers.NewHandlers(universeRepo, log),
		Scoring:     scoringhandlers.NewHandlers(builder, runner, scoreRepo, universeRepo, log),
		Portfolio:   portfoliohandlers.NewHandlers(portfolioRepo, portfolioService, universeRepo, log),
		Screener:    screenerhandlers.NewHandlers(scoreRepo, log),
	})

	// Scheduler
	sched := scheduler.New(log)
	batchJob := scoring.NewBatchScoringJob(runner, log)
	srv.SetBatchScoringJob(batchJob)

	if cfg.ScoringScheduleOn {
		if err := sched.AddJob(cfg.ScoringSchedule, batchJob); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.ScoringSchedule).Msg("Failed to register batch scoring job")
		}
	} else {
		log.Info().Msg("Scheduled batch scoring disabled, runs only via API")
	}
	sched.Start()

	// Serve until interrupted
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server stopped unexpectedly")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	sched.Stop()

	log.Info().Msg("Shutdown complete")
}
