package services

import (
	"sort"

	"smart-pricing/models"
	"smart-pricing/utils"
)

const topRatedCount = 5

// InsightService computes market-wide analytics from the cleaned dataset
type InsightService struct {
	logger *utils.Logger
}

// NewInsightService creates a new InsightService
func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Summarize computes nightly price statistics, the most expensive offer,
// the best rated listings and the bedroom mix of the whole market.
func (s *InsightService) Summarize(listings []models.Listing) *models.MarketSummary {
	summary := &models.MarketSummary{
		ListingsByBedrooms: make(map[int]int),
	}

	if len(listings) == 0 {
		s.logger.Warn("No listings to generate insights from")
		return summary
	}

	var total float64
	var mostExpensive models.Listing
	summary.MinPrice = listings[0].PricePerNight()
	summary.MaxPrice = listings[0].PricePerNight()
	mostExpensive = listings[0]

	for _, l := range listings {
		price := l.PricePerNight()
		summary.TotalListings++
		total += price

		if price < summary.MinPrice {
			summary.MinPrice = price
		}
		if price > summary.MaxPrice {
			summary.MaxPrice = price
			mostExpensive = l
		}

		summary.ListingsByBedrooms[l.Bedrooms]++
	}

	summary.AveragePrice = round2(total / float64(summary.TotalListings))
	summary.MinPrice = round2(summary.MinPrice)
	summary.MaxPrice = round2(summary.MaxPrice)
	summary.MostExpensive = &mostExpensive

	// Top highest-rated, more reviews first on equal rating
	rated := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Rating > 0 {
			rated = append(rated, l)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		if rated[i].Rating != rated[j].Rating {
			return rated[i].Rating > rated[j].Rating
		}
		return rated[i].ReviewsCount > rated[j].ReviewsCount
	})
	summary.TopRated = rated[:min(topRatedCount, len(rated))]

	s.logger.Debug("Market summary over %d listings: avg %.2f, min %.2f, max %.2f",
		summary.TotalListings, summary.AveragePrice, summary.MinPrice, summary.MaxPrice)
	return summary
}
