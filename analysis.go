package main

import (
	"errors"

	"smart-pricing/config"
	"smart-pricing/ml"
	"smart-pricing/models"
	"smart-pricing/services"
	"smart-pricing/utils"
)

// analyze runs one pricing analysis of the configured apartment against the market
func analyze(cfg *config.Config, listings []models.Listing, logger *utils.Logger) *models.AnalysisReport {
	target := cfg.TargetListing()
	report := models.NewAnalysisReport(cfg.Dataset.Path, target, cfg.Analysis.RadiusKm, cfg.Analysis.CurrentPrice)
	report.TotalListings = len(listings)
	report.Market = services.NewInsightService(logger.With("insights")).Summarize(listings)

	candidates := filterCandidates(listings, target, cfg.Analysis)
	report.CandidateCount = len(candidates)
	logger.Info("%d of %d listings are comparable within %.1f km", len(candidates), len(listings), cfg.Analysis.RadiusKm)

	ranked := services.RankBySimilarity(target, candidates, cfg.Analysis.RadiusKm)
	report.Comparables = ranked
	report.Insight = services.RecommendPrice(ranked, cfg.Analysis.TopN)
	report.Position = services.PricePositioning(cfg.Analysis.CurrentPrice, ranked, cfg.Analysis.TopN)

	if cfg.ML.Enabled {
		applyModel(report, ranked, target, cfg.ML, logger.With("ml"))
	}
	return report
}

// filterCandidates narrows the market to listings comparable with target
func filterCandidates(listings []models.Listing, target models.Listing, opts config.AnalysisConfig) []models.Listing {
	candidates := services.FilterByRadius(listings, target.Latitude, target.Longitude, opts.RadiusKm)
	candidates = services.FilterByBedrooms(candidates, target.Bedrooms)
	candidates = services.FilterByRatingRange(candidates, target.Rating, opts.RatingTolerance)
	candidates = services.FilterByMinReviews(candidates, opts.MinReviews)
	if opts.AreaTolerance > 0 {
		candidates = services.FilterByAreaRange(candidates, target.AreaM2, opts.AreaTolerance)
	}
	return candidates
}

// applyModel trains on the ranked comparables and records the model's view of target.
// Too few comparables leave the report without model output.
func applyModel(report *models.AnalysisReport, ranked []models.RankedListing, target models.Listing, cfg config.MLConfig, logger *utils.Logger) {
	opts := ml.DefaultOptions()
	opts.TopN = cfg.TopN
	opts.Seed = cfg.Seed
	opts.Forest.Seed = cfg.Seed
	opts.Forest.Trees = cfg.Trees
	opts.Forest.MaxDepth = cfg.MaxDepth

	model, err := ml.Train(ranked, target, opts)
	if errors.Is(err, ml.ErrInsufficientData) {
		logger.Warn("Skipping price model: %v", err)
		return
	}
	if err != nil {
		logger.Error("Price model training failed: %v", err)
		return
	}

	metrics := model.Metrics().ToModel()
	report.Metrics = &metrics
	logger.Info("Selected %s (R² %.3f, MAE %.2f)", metrics.BestModel, metrics.BestR2, metrics.BestMAE)

	if price, ok := model.Predict(target, target); ok {
		report.PredictedPrice = &price
	}
	if attributions, ok := model.Explain(target, target); ok {
		report.Attributions = attributions
	}
	if base, ok := model.Baseline(); ok {
		report.AttributionsBase = &base
	}
}
