// Package main is the entry point for the WardNavi valuation service.
// The application serves condo price appraisals and holding-period exit
// simulations for the 23 Tokyo special wards over a single HTTP API.
//
// Startup sequence:
// 1. Loads configuration from environment variables
// 2. Initializes logging
// 3. Opens and migrates the listings database
// 4. Bulk-imports transaction CSVs when a listings directory is configured
// 5. Loads the trained estimator artifact (non-fatal; the service degrades)
// 6. Starts the HTTP server and waits for shutdown signal
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/estatelab/wardnavi/internal/config"
	"github.com/estatelab/wardnavi/internal/database"
	"github.com/estatelab/wardnavi/internal/modules/estimator"
	"github.com/estatelab/wardnavi/internal/modules/listings"
	"github.com/estatelab/wardnavi/internal/server"
	"github.com/estatelab/wardnavi/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().Msg("Starting WardNavi")

	// Listings database holds the historical transaction records. Read-mostly,
	// bulk-loaded at startup.
	listingsDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "listings.db"),
		Profile: database.ProfileReference,
		Name:    "listings",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open listings database")
	}
	defer listingsDB.Close()

	if err := listingsDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate listings database")
	}

	// Bulk import per-ward CSV exports when a directory is configured.
	// Wards that already have rows are skipped, so restarts are cheap.
	if cfg.ListingsDir != "" {
		repo := listings.NewRepository(listingsDB.Conn(), log)
		importer := listings.NewImporter(repo, cfg.Valuation.ReferenceYear, log)
		if err := importer.ImportDir(cfg.ListingsDir); err != nil {
			log.Error().Err(err).Str("dir", cfg.ListingsDir).Msg("Listings import failed")
		}
	}

	// Load the trained estimator. A missing or corrupt artifact is not fatal:
	// simulations fall back to the deterministic growth curve and appraisals
	// answer 503 until an artifact is deployed.
	var est estimator.Estimator
	forest, err := estimator.Load(filepath.Join(cfg.DataDir, cfg.EstimatorPath))
	if err != nil {
		if errors.Is(err, estimator.ErrMissingArtifact) {
			log.Warn().Err(err).Msg("Estimator artifact unavailable, running degraded")
		} else {
			log.Error().Err(err).Msg("Failed to load estimator artifact")
		}
	} else {
		est = forest
		log.Info().
			Int("trees", len(forest.Trees)).
			Int("samples", forest.Samples).
			Msg("Estimator artifact loaded")
	}

	srv := server.New(server.Config{
		Port:       cfg.Port,
		Log:        log,
		ListingsDB: listingsDB,
		Config:     cfg,
		DevMode:    cfg.DevMode,
		Estimator:  est,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
