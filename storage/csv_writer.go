package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"smart-pricing/models"
	"smart-pricing/utils"
)

// CSVWriter exports ranked comparables to a CSV file
type CSVWriter struct {
	filePath   string
	amenitySep string
	logger     *utils.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath, amenitySep string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, amenitySep: amenitySep, logger: logger}
}

// WriteComparables writes the ranked listings, best match first, with their scores
func (w *CSVWriter) WriteComparables(ranked []models.RankedListing) error {
	// Ensure output directory exists
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := append([]string{"rank", "similarity", "price_per_night"}, listingColumns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, r := range ranked {
		l := r.Listing
		row := []string{
			strconv.Itoa(i + 1),
			formatFloat(r.Score, 4),
			formatFloat(l.PricePerNight(), 2),
			l.Name,
			formatFloat(l.Latitude, -1),
			formatFloat(l.Longitude, -1),
			formatFloat(l.TotalPrice, -1),
			strconv.Itoa(l.Nights),
			strconv.Itoa(l.Bedrooms),
			strconv.Itoa(l.Bathrooms),
			formatFloat(l.AreaM2, -1),
			formatFloat(l.Rating, -1),
			strconv.Itoa(l.ReviewsCount),
			l.Amenities.Join(w.amenitySep),
		}
		if err := writer.Write(row); err != nil {
			w.logger.Error("Failed to write CSV row for '%s': %v", l.Name, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file: %w", err)
	}

	w.logger.Info("Comparables written to: %s (%d rows)", w.filePath, len(ranked))
	return nil
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
