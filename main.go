package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"smart-pricing/config"
	"smart-pricing/models"
	"smart-pricing/services"
	"smart-pricing/storage"
	"smart-pricing/utils"
)

func main() {
	// ================== Bootstrap ====================
	cfg, err := config.Load()
	if err != nil {
		utils.NewLogger().Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger := utils.NewLoggerWith(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	logger.Info("Smart Apartment Pricing")
	logger.Info("Dataset: %s (%s, %d nights)", cfg.Dataset.Path, cfg.Dataset.Source, cfg.Dataset.Nights)
	logger.Info("Radius: %.1f km | Top-N: %d | Min reviews: %d | ML: %t",
		cfg.Analysis.RadiusKm, cfg.Analysis.TopN, cfg.Analysis.MinReviews, cfg.ML.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("%v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	start := time.Now()

	// =================== PostgreSQL Setup ========================================
	var store *storage.PostgresStore
	if cfg.Dataset.Source == "postgres" || cfg.Database.Persist || cfg.Database.Import {
		var err error
		store, err = storage.NewPostgresStore(cfg.Database.URL, cfg.Database.MaxRetries, logger.With("postgres"))
		if err != nil {
			return fmt.Errorf("cannot connect to PostgreSQL: %w", err)
		}
		defer store.Close()

		if err := store.CreateTables(ctx); err != nil {
			return err
		}
	}

	csvReader := storage.NewCSVReader(cfg.Dataset.Path, cfg.Dataset.AmenitySeparator, logger.With("csv"))
	if cfg.Database.Import {
		listings, err := csvReader.LoadListings(ctx)
		if err != nil {
			return fmt.Errorf("failed to load dataset for import: %w", err)
		}
		if err := store.ImportListings(ctx, listings); err != nil {
			return err
		}
	}

	// =============== Market Data ===================================
	var source storage.ListingSource = csvReader
	if cfg.Dataset.Source == "postgres" {
		source = store.Source(cfg.Dataset.Nights)
	}
	raw, err := source.LoadListings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load listings: %w", err)
	}
	listings := services.NewDataCleaner(logger.With("cleaner")).Clean(raw)
	if len(listings) == 0 {
		logger.Warn("Dataset is empty, every estimate will report no market data")
	}

	// ==== Analysis ============================
	report := analyze(cfg, listings, logger)
	services.PrintAnalysisReport(os.Stdout, report, cfg.Analysis.DisplayTop)

	// ========= Exports ===========================
	if path := cfg.Output.ComparablesCSV; path != "" {
		csvWriter := storage.NewCSVWriter(path, cfg.Dataset.AmenitySeparator, logger.With("csv"))
		if err := csvWriter.WriteComparables(report.Comparables); err != nil {
			// Non-fatal: the report was already printed
			logger.Error("Failed to write comparables: %v", err)
		}
	}
	if path := cfg.Output.ReportJSON; path != "" {
		if err := storage.NewJSONWriter(path, logger.With("json")).WriteReport(report); err != nil {
			logger.Error("Failed to write report: %v", err)
		}
	}

	if cfg.Database.Persist {
		if err := persist(ctx, store, report); err != nil {
			return err
		}
	}

	logger.Duration("analysis", start)
	logger.Info("Done! Run %s", report.RunID)
	return nil
}

func persist(ctx context.Context, store storage.AnalysisStore, report *models.AnalysisReport) error {
	if err := store.SaveAnalysis(ctx, report); err != nil {
		return fmt.Errorf("failed to persist analysis: %w", err)
	}
	return nil
}
