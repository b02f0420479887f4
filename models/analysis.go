package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RankedListing pairs a comparable with its similarity score in [0, 1]
type RankedListing struct {
	Listing Listing `json:"listing"`
	Score   float64 `json:"score"`
}

// PricingInsight holds the price estimates derived from the top comparables.
// Nil prices mean there was no market data to work from.
type PricingInsight struct {
	RecommendedPrice *float64 `json:"recommended_price"`
	MedianPrice      *float64 `json:"median_price"`
	AveragePrice     *float64 `json:"average_price"`
	ComparablesUsed  int      `json:"comparables_used"`
	Message          string   `json:"message,omitempty"`
}

// HasData reports whether the insight carries estimates
func (p PricingInsight) HasData() bool {
	return p.RecommendedPrice != nil
}

// Verdict is the qualitative market position of a price
type Verdict string

const (
	VerdictNoData      Verdict = "No market data"
	VerdictUnderpriced Verdict = "Underpriced"
	VerdictCompetitive Verdict = "Competitively priced"
	VerdictOverpriced  Verdict = "Overpriced"
)

// MarketPosition is the percentile-based verdict for a nightly price
type MarketPosition struct {
	Verdict    Verdict `json:"verdict"`
	Percentile float64 `json:"percentile"`
}

func (p MarketPosition) String() string {
	switch p.Verdict {
	case VerdictUnderpriced:
		return fmt.Sprintf("Underpriced (below %.0fth percentile)", p.Percentile)
	case VerdictOverpriced:
		return fmt.Sprintf("Overpriced (above %.0fth percentile)", p.Percentile)
	case VerdictCompetitive:
		return fmt.Sprintf("Competitively priced (%.0fth percentile)", p.Percentile)
	default:
		return "No market data."
	}
}

// ModelMetrics are the held-out scores of the adaptive pricing model
type ModelMetrics struct {
	LinearR2  float64 `json:"linear_r2"`
	ForestR2  float64 `json:"rf_r2"`
	BestModel string  `json:"best_model"`
	BestR2    float64 `json:"best_r2"`
	BestMAE   float64 `json:"best_mae"`
}

// MarketSummary holds dataset-wide analytics
type MarketSummary struct {
	TotalListings      int         `json:"total_listings"`
	AveragePrice       float64     `json:"average_price"`
	MinPrice           float64     `json:"min_price"`
	MaxPrice           float64     `json:"max_price"`
	MostExpensive      *Listing    `json:"most_expensive,omitempty"`
	TopRated           []Listing   `json:"top_rated"`
	ListingsByBedrooms map[int]int `json:"listings_by_bedrooms"`
}

// AnalysisReport collects everything one analysis run produced
type AnalysisReport struct {
	RunID            uuid.UUID          `json:"run_id"`
	CreatedAt        time.Time          `json:"created_at"`
	Dataset          string             `json:"dataset"`
	Target           Listing            `json:"target"`
	RadiusKm         float64            `json:"radius_km"`
	CurrentPrice     float64            `json:"current_price"`
	TotalListings    int                `json:"total_listings"`
	CandidateCount   int                `json:"candidate_count"`
	Comparables      []RankedListing    `json:"comparables"`
	Insight          PricingInsight     `json:"insight"`
	Position         MarketPosition     `json:"position"`
	Market           *MarketSummary     `json:"market,omitempty"`
	Metrics          *ModelMetrics      `json:"metrics,omitempty"`
	PredictedPrice   *float64           `json:"predicted_price,omitempty"`
	Attributions     map[string]float64 `json:"attributions,omitempty"`
	AttributionsBase *float64           `json:"attributions_baseline,omitempty"`
}

// NewAnalysisReport starts a report with a fresh run id
func NewAnalysisReport(dataset string, target Listing, radiusKm, currentPrice float64) *AnalysisReport {
	return &AnalysisReport{
		RunID:        uuid.New(),
		CreatedAt:    time.Now().UTC(),
		Dataset:      dataset,
		Target:       target,
		RadiusKm:     radiusKm,
		CurrentPrice: currentPrice,
	}
}
