package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// DefaultAmenitySeparator separates amenity tags in the dataset's amenities column
const DefaultAmenitySeparator = "|"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Listing is one apartment offer from the market dataset (or the apartment being priced)
type Listing struct {
	Name         string     `json:"name" validate:"required"`
	Latitude     float64    `json:"latitude" validate:"latitude"`
	Longitude    float64    `json:"longitude" validate:"longitude"`
	TotalPrice   float64    `json:"total_price" validate:"gt=0"` // price for the full stay
	Nights       int        `json:"nights" validate:"gt=0"`
	Bedrooms     int        `json:"bedrooms" validate:"gte=0"`
	Bathrooms    int        `json:"bathrooms" validate:"gte=0"`
	AreaM2       float64    `json:"area_m2" validate:"gt=0"`
	Rating       float64    `json:"rating" validate:"gte=0,lte=10"`
	ReviewsCount int        `json:"reviews_count" validate:"gte=0"`
	Amenities    AmenitySet `json:"amenities"`
}

// PricePerNight returns the nightly price; zero when nights is not positive
func (l Listing) PricePerNight() float64 {
	if l.Nights <= 0 {
		return 0
	}
	return l.TotalPrice / float64(l.Nights)
}

// Validate checks a dataset record against the listing invariants
func (l Listing) Validate() error {
	return validate.Struct(l)
}

func (l Listing) String() string {
	return fmt.Sprintf("%s | %.2f lei/night | Rating: %g | Reviews: %d",
		l.Name, l.PricePerNight(), l.Rating, l.ReviewsCount)
}

// AmenitySet is a sorted, de-duplicated list of lower-cased amenity tags
type AmenitySet []string

// NewAmenitySet normalizes the given tags into a set
func NewAmenitySet(tags ...string) AmenitySet {
	cleaned := lo.FilterMap(tags, func(tag string, _ int) (string, bool) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		return tag, tag != ""
	})
	set := lo.Uniq(cleaned)
	sort.Strings(set)
	return set
}

// ParseAmenities splits a delimiter-separated tag string into a set
func ParseAmenities(raw, sep string) AmenitySet {
	if sep == "" {
		sep = DefaultAmenitySeparator
	}
	return NewAmenitySet(strings.Split(raw, sep)...)
}

func (s AmenitySet) Len() int {
	return len(s)
}

// Has reports whether the tag is in the set
func (s AmenitySet) Has(tag string) bool {
	i := sort.SearchStrings(s, tag)
	return i < len(s) && s[i] == tag
}

// Intersection returns the tags present in both sets
func (s AmenitySet) Intersection(other AmenitySet) AmenitySet {
	return lo.Filter(s, func(tag string, _ int) bool {
		return other.Has(tag)
	})
}

// Union returns the tags present in either set
func (s AmenitySet) Union(other AmenitySet) AmenitySet {
	return NewAmenitySet(lo.Union(s, other)...)
}

// Join renders the set back into the dataset's column format
func (s AmenitySet) Join(sep string) string {
	if sep == "" {
		sep = DefaultAmenitySeparator
	}
	return strings.Join(s, sep)
}
