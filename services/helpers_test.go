package services

import (
	"io"

	"smart-pricing/models"
	"smart-pricing/utils"
)

const (
	clujLat = 46.7712
	clujLon = 23.6236
)

func quietLogger() *utils.Logger {
	return utils.NewLoggerWith(io.Discard, "disabled", "json")
}

func listingAt(name string, lat, lon, nightly float64) models.Listing {
	return models.Listing{
		Name:         name,
		Latitude:     lat,
		Longitude:    lon,
		TotalPrice:   nightly * 2,
		Nights:       2,
		Bedrooms:     1,
		Bathrooms:    1,
		AreaM2:       40,
		Rating:       9.5,
		ReviewsCount: 30,
		Amenities:    models.NewAmenitySet("wifi", "parking", "balcony"),
	}
}

func rankedPrices(prices []float64, scores []float64) []models.RankedListing {
	ranked := make([]models.RankedListing, len(prices))
	for i, p := range prices {
		ranked[i] = models.RankedListing{
			Listing: listingAt("comp", clujLat, clujLon, p),
			Score:   scores[i],
		}
	}
	return ranked
}
