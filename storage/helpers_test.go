package storage

import (
	"errors"
	"io"

	"smart-pricing/models"
	"smart-pricing/utils"
)

func quietLogger() *utils.Logger {
	return utils.NewLoggerWith(io.Discard, "disabled", "json")
}

const datasetHeader = "name,latitude,longitude,total_price,nights,bedrooms,bathrooms,area_m2,rating,reviews_count,amenities\n"

func sampleListing(name string, nightly float64) models.Listing {
	return models.Listing{
		Name:         name,
		Latitude:     46.7712,
		Longitude:    23.6236,
		TotalPrice:   nightly * 2,
		Nights:       2,
		Bedrooms:     1,
		Bathrooms:    1,
		AreaM2:       42.5,
		Rating:       9.6,
		ReviewsCount: 48,
		Amenities:    models.NewAmenitySet("wifi", "parking"),
	}
}

func errorsIsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidListing)
}
