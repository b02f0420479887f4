package storage

import (
	"context"

	"smart-pricing/models"
)

// ListingSource yields the market dataset
type ListingSource interface {
	LoadListings(ctx context.Context) ([]models.Listing, error)
}

// AnalysisStore persists the outcome of analysis runs
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, report *models.AnalysisReport) error
	Close()
}
