package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkaradimas/factordash/internal/config"
	"github.com/pkaradimas/factordash/internal/database"
	"github.com/pkaradimas/factordash/internal/modules/fundamentals"
	"github.com/pkaradimas/factordash/internal/modules/marketdata"
	"github.com/pkaradimas/factordash/internal/modules/scoring"
	scoringapi "github.com/pkaradimas/factordash/internal/modules/scoring/api"
	"github.com/pkaradimas/factordash/internal/modules/universe"
	"github.com/pkaradimas/factordash/internal/scheduler"
	"github.com/pkaradimas/factordash/internal/server"
	"github.com/pkaradimas/factordash/pkg/logger"
)

func main() {
	// Load configuration first so the log level is honored from the start
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting factordash")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Repositories and collaborator sources
	securities := universe.NewSecurityRepository(db.Conn(), log)
	memberships := universe.NewMembershipRepository(db.Conn(), log)
	fundamentalsRepo := fundamentals.NewRepository(db.Conn(), log)
	weights := scoring.NewWeightRepository(db.Conn(), log)

	history := marketdata.NewHistoryDB(cfg.HistoryDir, log)
	snapshots := marketdata.NewSnapshotBuilder(history, marketdata.LookbackConvention(cfg.LookbackConvention), log)

	// Scoring engine
	scoringService := scoring.NewService(scoring.ServiceConfig{
		Fundamentals: fundamentalsRepo,
		Prices:       snapshots,
		Assignments:  securities,
		Memberships:  memberships,
		Weights:      weights,
		Log:          log,
	})

	// Background jobs
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	refreshJob := scheduler.NewScoreRefreshJob(scheduler.ScoreRefreshConfig{
		Log:        log,
		Securities: securities,
		Service:    scoringService,
		Profile:    cfg.DefaultProfile,
		Column:     cfg.DefaultBenchmark,
	})
	if err := sched.AddJob(cfg.ScoreRefreshSchedule, refreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register score refresh job")
	}

	// HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		DevMode: cfg.DevMode,
		Scoring: scoringapi.NewHandlers(scoringapi.HandlersConfig{
			Service:        scoringService,
			Securities:     securities,
			Weights:        weights,
			DefaultProfile: cfg.DefaultProfile,
			DefaultColumn:  cfg.DefaultBenchmark,
			Log:            log,
		}),
		Fundamentals: fundamentals.NewHandlers(fundamentalsRepo, snapshots, log),
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
