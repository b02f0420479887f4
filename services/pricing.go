package services

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"smart-pricing/models"
)

// DefaultTopN is how many of the best-ranked comparables feed the price estimates
const DefaultTopN = 10

// Market position thresholds, in percentile points
const (
	underpricedBelow = 30.0
	overpricedAbove  = 70.0
)

// NoComparablesMessage explains an empty pricing insight
const NoComparablesMessage = "No comparable listings found."

// RecommendPrice turns the top ranked comparables into nightly price estimates.
// The recommendation is the similarity-weighted mean, so closer matches count more.
func RecommendPrice(ranked []models.RankedListing, topN int) models.PricingInsight {
	if len(ranked) == 0 {
		return models.PricingInsight{Message: NoComparablesMessage}
	}

	top := topComparables(ranked, topN)
	prices := nightlyPrices(top)

	average := lo.Sum(prices) / float64(len(prices))
	median := median(prices)

	weighted := average
	if totalWeight := lo.SumBy(top, func(r models.RankedListing) float64 { return r.Score }); totalWeight != 0 {
		var sum float64
		for i, r := range top {
			sum += prices[i] * r.Score
		}
		weighted = sum / totalWeight
	}

	return models.PricingInsight{
		RecommendedPrice: lo.ToPtr(round2(weighted)),
		MedianPrice:      lo.ToPtr(round2(median)),
		AveragePrice:     lo.ToPtr(round2(average)),
		ComparablesUsed:  len(top),
	}
}

// PricePositioning places myPrice among the top comparables' nightly prices
func PricePositioning(myPrice float64, ranked []models.RankedListing, topN int) models.MarketPosition {
	if len(ranked) == 0 {
		return models.MarketPosition{Verdict: models.VerdictNoData}
	}

	prices := nightlyPrices(topComparables(ranked, topN))
	below := lo.CountBy(prices, func(p float64) bool { return p < myPrice })
	percentile := float64(below) / float64(len(prices)) * 100

	verdict := models.VerdictCompetitive
	switch {
	case percentile < underpricedBelow:
		verdict = models.VerdictUnderpriced
	case percentile > overpricedAbove:
		verdict = models.VerdictOverpriced
	}
	return models.MarketPosition{Verdict: verdict, Percentile: percentile}
}

func topComparables(ranked []models.RankedListing, topN int) []models.RankedListing {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if len(ranked) > topN {
		return ranked[:topN]
	}
	return ranked
}

func nightlyPrices(ranked []models.RankedListing) []float64 {
	return lo.Map(ranked, func(r models.RankedListing, _ int) float64 {
		return r.Listing.PricePerNight()
	})
}

// median returns the middle value, averaging the two middle values for even counts
func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
