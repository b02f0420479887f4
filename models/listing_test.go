package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validListing() Listing {
	return Listing{
		Name:         "Central Studio",
		Latitude:     46.7712,
		Longitude:    23.6236,
		TotalPrice:   400,
		Nights:       2,
		Bedrooms:     1,
		Bathrooms:    1,
		AreaM2:       40,
		Rating:       9.4,
		ReviewsCount: 35,
		Amenities:    NewAmenitySet("wifi", "parking"),
	}
}

func TestListing_PricePerNight(t *testing.T) {
	l := validListing()
	assert.InDelta(t, 200.0, l.PricePerNight(), 1e-9)

	l.Nights = 0
	assert.Zero(t, l.PricePerNight())
}

func TestListing_Validate(t *testing.T) {
	require.NoError(t, validListing().Validate())

	tests := []struct {
		name   string
		mutate func(*Listing)
	}{
		{"zero nights", func(l *Listing) { l.Nights = 0 }},
		{"negative nights", func(l *Listing) { l.Nights = -2 }},
		{"empty name", func(l *Listing) { l.Name = "" }},
		{"latitude out of range", func(l *Listing) { l.Latitude = 123 }},
		{"zero area", func(l *Listing) { l.AreaM2 = 0 }},
		{"rating above scale", func(l *Listing) { l.Rating = 11 }},
		{"zero total price", func(l *Listing) { l.TotalPrice = 0 }},
		{"negative reviews", func(l *Listing) { l.ReviewsCount = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := validListing()
			tc.mutate(&l)
			assert.Error(t, l.Validate())
		})
	}
}

func TestListing_String(t *testing.T) {
	assert.Equal(t, "Central Studio | 200.00 lei/night | Rating: 9.4 | Reviews: 35", validListing().String())
}

func TestParseAmenities(t *testing.T) {
	set := ParseAmenities(" WiFi|parking||balcony|wifi ", "|")
	assert.Equal(t, AmenitySet{"balcony", "parking", "wifi"}, set)
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Has("parking"))
	assert.False(t, set.Has("elevator"))

	assert.Empty(t, ParseAmenities("", "|"))
	assert.Equal(t, AmenitySet{"ac", "kitchen"}, ParseAmenities("kitchen;ac", ";"))
	assert.Equal(t, AmenitySet{"ac", "kitchen"}, ParseAmenities("kitchen|ac", ""))
}

func TestAmenitySet_Algebra(t *testing.T) {
	a := NewAmenitySet("wifi", "parking", "balcony")
	b := NewAmenitySet("wifi", "elevator")

	assert.Equal(t, AmenitySet{"wifi"}, a.Intersection(b))
	assert.Equal(t, AmenitySet{"balcony", "elevator", "parking", "wifi"}, a.Union(b))
	assert.Empty(t, NewAmenitySet().Union(NewAmenitySet()))
	assert.Equal(t, "balcony|parking|wifi", a.Join(""))
}
