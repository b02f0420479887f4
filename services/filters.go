package services

import (
	"github.com/samber/lo"

	"smart-pricing/models"
)

// FilterByRadius keeps listings within radiusKm of the given point
func FilterByRadius(listings []models.Listing, lat, lon, radiusKm float64) []models.Listing {
	return lo.Filter(listings, func(l models.Listing, _ int) bool {
		return HaversineDistance(lat, lon, l.Latitude, l.Longitude) <= radiusKm
	})
}

// FilterByBedrooms keeps listings with exactly the given number of bedrooms
func FilterByBedrooms(listings []models.Listing, bedrooms int) []models.Listing {
	return lo.Filter(listings, func(l models.Listing, _ int) bool {
		return l.Bedrooms == bedrooms
	})
}

// FilterByRatingRange keeps listings rated within rating ± tolerance (inclusive)
func FilterByRatingRange(listings []models.Listing, rating, tolerance float64) []models.Listing {
	minRating, maxRating := rating-tolerance, rating+tolerance
	return lo.Filter(listings, func(l models.Listing, _ int) bool {
		return l.Rating >= minRating && l.Rating <= maxRating
	})
}

// FilterByMinReviews keeps listings with at least minReviews reviews
func FilterByMinReviews(listings []models.Listing, minReviews int) []models.Listing {
	return lo.Filter(listings, func(l models.Listing, _ int) bool {
		return l.ReviewsCount >= minReviews
	})
}

// FilterByAreaRange keeps listings within ±tolerancePct of the target area, e.g. 0.3 = ±30%
func FilterByAreaRange(listings []models.Listing, area, tolerancePct float64) []models.Listing {
	minArea, maxArea := area*(1-tolerancePct), area*(1+tolerancePct)
	return lo.Filter(listings, func(l models.Listing, _ int) bool {
		return l.AreaM2 >= minArea && l.AreaM2 <= maxArea
	})
}
