package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"smart-pricing/models"
)

func init() {
	color.NoColor = true
}

func sampleReport() *models.AnalysisReport {
	target := listingAt("My Apartment", clujLat, clujLon, 200)
	report := models.NewAnalysisReport("data/data_weekend.csv", target, 3, 200)
	report.TotalListings = 120
	report.CandidateCount = 2
	report.Comparables = []models.RankedListing{
		{Listing: listingAt("A very long apartment name that will not fit the column", clujLat, clujLon, 210), Score: 0.91},
		{Listing: listingAt("Garden Flat", clujLat, clujLon, 180), Score: 0.85},
	}
	report.Insight = RecommendPrice(report.Comparables, DefaultTopN)
	report.Position = PricePositioning(200, report.Comparables, DefaultTopN)
	return report
}

func TestPrintAnalysisReport(t *testing.T) {
	report := sampleReport()
	report.Market = NewInsightService(quietLogger()).Summarize([]models.Listing{report.Target})

	var buf bytes.Buffer
	PrintAnalysisReport(&buf, report, 10)
	out := buf.String()

	assert.Contains(t, out, "SMART APARTMENT PRICING")
	assert.Contains(t, out, "Current Price   : 200.00 lei/night")
	assert.Contains(t, out, "MARKET OVERVIEW")
	assert.Contains(t, out, "1 bedroom(s):")
	assert.Contains(t, out, "Recommended Price : 195.51 lei/night")
	assert.Contains(t, out, report.Position.String())
	assert.Contains(t, out, "TOP 2 SIMILAR LISTINGS")
	assert.Contains(t, out, "A very long apartment name that ...")
	assert.NotContains(t, out, "ADAPTIVE PRICING MODEL")
}

func TestPrintAnalysisReport_NoData(t *testing.T) {
	report := models.NewAnalysisReport("data/data_week.csv", listingAt("My Apartment", clujLat, clujLon, 200), 3, 200)
	report.Insight = RecommendPrice(nil, DefaultTopN)
	report.Position = PricePositioning(200, nil, DefaultTopN)

	var buf bytes.Buffer
	PrintAnalysisReport(&buf, report, 10)
	out := buf.String()

	assert.Contains(t, out, NoComparablesMessage)
	assert.Contains(t, out, "No market data.")
	assert.NotContains(t, out, "SIMILAR LISTINGS")
}

func TestPrintAnalysisReport_Model(t *testing.T) {
	report := sampleReport()
	report.Metrics = &models.ModelMetrics{LinearR2: 0.41, ForestR2: 0.78, BestModel: "Random Forest", BestR2: 0.78, BestMAE: 12.5}
	report.PredictedPrice = lo.ToPtr(205.4)
	report.AttributionsBase = lo.ToPtr(190.0)
	report.Attributions = map[string]float64{"Area": 3.1, "Distance": -12.25, "Rating": 0.5}

	var buf bytes.Buffer
	PrintAnalysisReport(&buf, report, 0)
	out := buf.String()

	assert.Contains(t, out, "Selected Model        : Random Forest (R² 0.780, MAE 12.50 lei)")
	assert.Contains(t, out, "Predicted Price       : 205.40 lei/night")
	assert.Contains(t, out, "Market baseline       : 190.00 lei/night")
	assert.NotContains(t, out, "SIMILAR LISTINGS")

	// strongest driver first
	distance := strings.Index(out, "Distance")
	area := strings.Index(out, "Area ")
	rating := strings.Index(out, "Rating                :")
	assert.True(t, distance < area && area < rating)
	assert.Contains(t, out, "-12.25 lei")
	assert.Contains(t, out, "+3.10 lei")
}

func TestPrintAnalysisReport_LinearModel(t *testing.T) {
	report := sampleReport()
	report.Metrics = &models.ModelMetrics{BestModel: "Linear Regression"}

	var buf bytes.Buffer
	PrintAnalysisReport(&buf, report, 10)
	assert.Contains(t, buf.String(), "No feature attribution for the linear model.")
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(3, 0))
	assert.Equal(t, strings.Repeat("▓", maxBarWidth), bar(500, 500))
	assert.Equal(t, "▓", bar(1, 500))
	assert.Equal(t, strings.Repeat("▓", 15), bar(250, 500))
}
