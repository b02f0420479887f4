package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"smart-pricing/models"
	"smart-pricing/utils"
)

// ErrInvalidListing marks a dataset row that breaks the listing invariants
var ErrInvalidListing = errors.New("invalid listing")

// listingColumns are the header names the dataset must provide
var listingColumns = []string{
	"name", "latitude", "longitude", "total_price", "nights",
	"bedrooms", "bathrooms", "area_m2", "rating", "reviews_count", "amenities",
}

// CSVReader loads listings from a delimited file with a header row
type CSVReader struct {
	filePath   string
	amenitySep string
	logger     *utils.Logger
}

// NewCSVReader creates a new CSVReader
func NewCSVReader(filePath, amenitySep string, logger *utils.Logger) *CSVReader {
	return &CSVReader{filePath: filePath, amenitySep: amenitySep, logger: logger}
}

// LoadListings reads and validates every row of the dataset file
func (r *CSVReader) LoadListings(_ context.Context) ([]models.Listing, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	listings, err := ReadListings(file, r.amenitySep)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.filePath, err)
	}

	r.logger.Info("Loaded %d listings from %s", len(listings), r.filePath)
	return listings, nil
}

// ReadListings parses CSV listing rows from in. Any malformed or invalid row
// fails the whole read, naming the offending line.
func ReadListings(in io.Reader, amenitySep string) ([]models.Listing, error) {
	reader := csv.NewReader(in)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var listings []models.Listing
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		listing, err := parseListing(record, index, amenitySep)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range listingColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("dataset is missing column %q", col)
		}
	}
	return index, nil
}

func parseListing(record []string, index map[string]int, amenitySep string) (models.Listing, error) {
	field := func(col string) string {
		return strings.TrimSpace(record[index[col]])
	}
	p := fieldParser{field: field}

	listing := models.Listing{
		Name:         field("name"),
		Latitude:     p.float("latitude"),
		Longitude:    p.float("longitude"),
		TotalPrice:   p.float("total_price"),
		Nights:       p.int("nights"),
		Bedrooms:     p.int("bedrooms"),
		Bathrooms:    p.int("bathrooms"),
		AreaM2:       p.float("area_m2"),
		Rating:       p.float("rating"),
		ReviewsCount: p.int("reviews_count"),
		Amenities:    models.ParseAmenities(field("amenities"), amenitySep),
	}
	if p.err != nil {
		return models.Listing{}, p.err
	}
	if err := listing.Validate(); err != nil {
		return models.Listing{}, fmt.Errorf("%w %q: %v", ErrInvalidListing, listing.Name, err)
	}
	return listing, nil
}

// fieldParser converts columns and keeps the first conversion error
type fieldParser struct {
	field func(string) string
	err   error
}

func (p *fieldParser) float(col string) float64 {
	v, err := strconv.ParseFloat(p.field(col), 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %s: %w", col, err)
	}
	return v
}

func (p *fieldParser) int(col string) int {
	v, err := strconv.Atoi(p.field(col))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %s: %w", col, err)
	}
	return v
}
