package ml

import (
	"fmt"

	"smart-pricing/models"
)

var allAmenities = []string{"wifi", "parking", "balcony", "elevator", "ac", "kitchen", "washing_machine"}

func pricingTarget() models.Listing {
	return models.Listing{
		Name:      "My Apartment",
		Latitude:  46.7717142,
		Longitude: 23.6313795,
		Nights:    2,
		Bedrooms:  1,
		Bathrooms: 1,
		AreaM2:    40,
		Rating:    9.5,
		Amenities: models.NewAmenitySet("wifi", "parking", "balcony"),
	}
}

// marketListings builds n varied comparables whose nightly price is priceFn(i, listing)
func marketListings(n int, priceFn func(l models.Listing) float64) []models.RankedListing {
	target := pricingTarget()
	ranked := make([]models.RankedListing, n)
	for i := 0; i < n; i++ {
		l := models.Listing{
			Name:         fmt.Sprintf("Listing %02d", i),
			Latitude:     target.Latitude + float64(i%5)*0.004,
			Longitude:    target.Longitude - float64(i%3)*0.005,
			Nights:       2,
			Bedrooms:     1,
			Bathrooms:    1 + i%4,
			AreaM2:       float64(30 + (i*7)%45),
			Rating:       8.5 + float64(i%6)*0.25,
			ReviewsCount: 20 + i,
			Amenities:    models.NewAmenitySet(allAmenities[:1+i%len(allAmenities)]...),
		}
		l.TotalPrice = priceFn(l) * float64(l.Nights)
		ranked[i] = models.RankedListing{Listing: l, Score: 1 - float64(i)/float64(2*n)}
	}
	return ranked
}

func linearPrice(l models.Listing) float64 {
	return 50 + 2*l.AreaM2
}

func parityPrice(l models.Listing) float64 {
	if l.Bathrooms%2 == 0 {
		return 100
	}
	return 250
}

func constantPrice(models.Listing) float64 {
	return 150
}
