package services

import (
	"math"
	"sort"

	"smart-pricing/models"
)

// Similarity weights; location and amenities drive pricing comparability the most
const (
	distanceWeight = 0.3
	ratingWeight   = 0.2
	areaWeight     = 0.2
	amenityWeight  = 0.3

	// ratingSpan is the rating gap at which the rating score bottoms out
	ratingSpan = 2.0
)

// CalculateSimilarity scores how comparable candidate is to target, in [0, 1]
func CalculateSimilarity(target, candidate models.Listing, radiusKm float64) float64 {
	return distanceWeight*distanceScore(target, candidate, radiusKm) +
		ratingWeight*ratingScore(target.Rating, candidate.Rating) +
		areaWeight*areaScore(target.AreaM2, candidate.AreaM2) +
		amenityWeight*amenityScore(target.Amenities, candidate.Amenities)
}

// RankBySimilarity scores every listing against target and sorts them best first.
// Listings with equal scores keep their input order.
func RankBySimilarity(target models.Listing, listings []models.Listing, radiusKm float64) []models.RankedListing {
	ranked := make([]models.RankedListing, 0, len(listings))
	for _, l := range listings {
		ranked = append(ranked, models.RankedListing{
			Listing: l,
			Score:   CalculateSimilarity(target, l, radiusKm),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func distanceScore(target, candidate models.Listing, radiusKm float64) float64 {
	if radiusKm <= 0 {
		return 0
	}
	return math.Max(0, 1-DistanceBetween(target, candidate)/radiusKm)
}

func ratingScore(a, b float64) float64 {
	return math.Max(0, 1-math.Abs(a-b)/ratingSpan)
}

func areaScore(a, b float64) float64 {
	largest := math.Max(a, b)
	if largest <= 0 {
		return 0
	}
	return math.Max(0, 1-math.Abs(a-b)/largest)
}

// amenityScore is the Jaccard index of the two tag sets
func amenityScore(a, b models.AmenitySet) float64 {
	union := a.Union(b)
	if union.Len() == 0 {
		return 0
	}
	return float64(a.Intersection(b).Len()) / float64(union.Len())
}
