package services

import (
	"fmt"
	"regexp"
	"strings"

	"smart-pricing/models"
	"smart-pricing/utils"
)

var spaceRegex = regexp.MustCompile(`\s+`)

// DataCleaner normalizes loaded listings before analysis
type DataCleaner struct {
	logger *utils.Logger
}

// NewDataCleaner creates a new DataCleaner
func NewDataCleaner(logger *utils.Logger) *DataCleaner {
	return &DataCleaner{logger: logger}
}

// Clean tidies names and amenity tags, drops records that fail validation and
// removes repeated offers (same name, location and stay length). Order is kept.
func (c *DataCleaner) Clean(listings []models.Listing) []models.Listing {
	seen := make(map[string]bool, len(listings))
	cleaned := make([]models.Listing, 0, len(listings))

	for _, l := range listings {
		l.Name = cleanName(l.Name)
		l.Amenities = models.NewAmenitySet(l.Amenities...)

		if err := l.Validate(); err != nil {
			c.logger.Warn("Skipping invalid listing '%s': %v", l.Name, err)
			continue
		}

		key := dedupKey(l)
		if seen[key] {
			c.logger.Debug("Skipping duplicate: %s", l.Name)
			continue
		}
		seen[key] = true

		cleaned = append(cleaned, l)
	}

	c.logger.Info("Cleaned %d listings from %d records", len(cleaned), len(listings))
	return cleaned
}

// cleanName trims and collapses runs of whitespace
func cleanName(name string) string {
	return spaceRegex.ReplaceAllString(strings.TrimSpace(name), " ")
}

func dedupKey(l models.Listing) string {
	return fmt.Sprintf("%s|%.6f|%.6f|%d", strings.ToLower(l.Name), l.Latitude, l.Longitude, l.Nights)
}
