package ml

import (
	"github.com/samber/lo"

	"smart-pricing/models"
	"smart-pricing/services"
)

// FeatureNames is the fixed order of the model's feature vector; extraction,
// training and explanation all index into it.
var FeatureNames = [...]string{
	"Distance",
	"Bedrooms",
	"Bathrooms",
	"Area",
	"Rating",
	"Amenities Count",
}

// NumFeatures is the length of every feature vector
const NumFeatures = len(FeatureNames)

// ExtractFeatures builds the feature vector of listing relative to target
func ExtractFeatures(listing, target models.Listing) []float64 {
	return []float64{
		services.DistanceBetween(target, listing),
		float64(listing.Bedrooms),
		float64(listing.Bathrooms),
		listing.AreaM2,
		listing.Rating,
		float64(listing.Amenities.Len()),
	}
}

// buildDataset turns ranked comparables into a feature matrix and nightly price targets
func buildDataset(ranked []models.RankedListing, target models.Listing) ([][]float64, []float64) {
	X := lo.Map(ranked, func(r models.RankedListing, _ int) []float64 {
		return ExtractFeatures(r.Listing, target)
	})
	y := lo.Map(ranked, func(r models.RankedListing, _ int) float64 {
		return r.Listing.PricePerNight()
	})
	return X, y
}
