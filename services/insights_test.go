package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-pricing/models"
)

func TestInsightService_Summarize(t *testing.T) {
	cheap := listingAt("Cheap Room", clujLat, clujLon, 80)
	cheap.Rating, cheap.ReviewsCount = 8.1, 12

	pricey := listingAt("Penthouse", clujLat, clujLon, 420)
	pricey.Bedrooms, pricey.Rating = 3, 9.9

	mid := listingAt("Mid Flat", clujLat, clujLon, 150)
	mid.Bedrooms, mid.Rating, mid.ReviewsCount = 2, 9.9, 200

	summary := NewInsightService(quietLogger()).Summarize([]models.Listing{cheap, pricey, mid})

	assert.Equal(t, 3, summary.TotalListings)
	assert.InDelta(t, 216.67, summary.AveragePrice, 1e-9)
	assert.InDelta(t, 80.0, summary.MinPrice, 1e-9)
	assert.InDelta(t, 420.0, summary.MaxPrice, 1e-9)
	require.NotNil(t, summary.MostExpensive)
	assert.Equal(t, "Penthouse", summary.MostExpensive.Name)
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 1}, summary.ListingsByBedrooms)

	require.Len(t, summary.TopRated, 3)
	// equal ratings: more reviews first
	assert.Equal(t, "Mid Flat", summary.TopRated[0].Name)
	assert.Equal(t, "Penthouse", summary.TopRated[1].Name)
	assert.Equal(t, "Cheap Room", summary.TopRated[2].Name)
}

func TestInsightService_TopRatedCapped(t *testing.T) {
	var listings []models.Listing
	for i := 0; i < 8; i++ {
		l := listingAt(fmt.Sprintf("Flat %d", i), clujLat, clujLon, 100)
		l.Rating = 9 + float64(i)/10
		listings = append(listings, l)
	}

	summary := NewInsightService(quietLogger()).Summarize(listings)
	require.Len(t, summary.TopRated, topRatedCount)
	assert.Equal(t, "Flat 7", summary.TopRated[0].Name)
	assert.Equal(t, 8, summary.ListingsByBedrooms[1])
}

func TestInsightService_Empty(t *testing.T) {
	summary := NewInsightService(quietLogger()).Summarize(nil)
	assert.Zero(t, summary.TotalListings)
	assert.Nil(t, summary.MostExpensive)
	assert.Empty(t, summary.TopRated)
}
