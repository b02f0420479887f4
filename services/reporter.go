package services

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/fatih/color"

	"smart-pricing/models"
)

const (
	reportWidth = 60
	maxBarWidth = 30
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	faintColor   = color.New(color.Faint)
)

// PrintAnalysisReport formats the analysis of one run for the terminal.
// displayTop limits the similar listings table; 0 hides it.
func PrintAnalysisReport(w io.Writer, report *models.AnalysisReport, displayTop int) {
	border := strings.Repeat("═", reportWidth)
	thin := strings.Repeat("─", reportWidth)

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("SMART APARTMENT PRICING", reportWidth))
	fmt.Fprintf(w, "╚%s╝\n", border)

	t := report.Target
	section(w, "YOUR APARTMENT", thin)
	fmt.Fprintf(w, "  Name            : %s\n", t.Name)
	fmt.Fprintf(w, "  Location        : %.6f, %.6f\n", t.Latitude, t.Longitude)
	fmt.Fprintf(w, "  Layout          : %d bedroom(s), %d bathroom(s), %.0f m²\n", t.Bedrooms, t.Bathrooms, t.AreaM2)
	fmt.Fprintf(w, "  Rating          : %g\n", t.Rating)
	fmt.Fprintf(w, "  Amenities       : %s\n", strings.Join(t.Amenities, ", "))
	fmt.Fprintf(w, "  Current Price   : %.2f lei/night\n", report.CurrentPrice)
	fmt.Fprintf(w, "  Dataset         : %s (%d nights)\n", report.Dataset, t.Nights)

	if m := report.Market; m != nil {
		printMarket(w, m, thin)
	}

	section(w, "PRICING INSIGHTS", thin)
	fmt.Fprintf(w, "  Listings within %.1f km after filters : %d of %d\n",
		report.RadiusKm, report.CandidateCount, report.TotalListings)
	insight := report.Insight
	if insight.HasData() {
		fmt.Fprintf(w, "  Recommended Price : %s\n", color.GreenString("%.2f lei/night", *insight.RecommendedPrice))
		fmt.Fprintf(w, "  Median Price      : %.2f lei/night\n", *insight.MedianPrice)
		fmt.Fprintf(w, "  Average Price     : %.2f lei/night\n", *insight.AveragePrice)
		fmt.Fprintf(w, "  Comparables Used  : %d\n", insight.ComparablesUsed)
	} else {
		fmt.Fprintf(w, "  %s\n", insight.Message)
	}

	section(w, "MARKET POSITION", thin)
	fmt.Fprintf(w, "  %s\n", verdictColor(report.Position.Verdict).Sprint(report.Position.String()))

	if displayTop > 0 && len(report.Comparables) > 0 {
		top := report.Comparables[:min(displayTop, len(report.Comparables))]
		section(w, fmt.Sprintf("TOP %d SIMILAR LISTINGS", len(top)), thin)
		for i, r := range top {
			fmt.Fprintf(w, "  %2d. %-35s %8.2f lei  similarity %.3f\n",
				i+1, truncate(r.Listing.Name, 35), r.Listing.PricePerNight(), r.Score)
		}
	}

	if report.Metrics != nil {
		printModel(w, report, thin)
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

func printMarket(w io.Writer, m *models.MarketSummary, thin string) {
	section(w, "MARKET OVERVIEW", thin)
	fmt.Fprintf(w, "  Total Listings          : %d\n", m.TotalListings)
	fmt.Fprintf(w, "  Average Price/Night     : %.2f lei\n", m.AveragePrice)
	fmt.Fprintf(w, "  Minimum Price/Night     : %.2f lei\n", m.MinPrice)
	fmt.Fprintf(w, "  Maximum Price/Night     : %.2f lei\n", m.MaxPrice)
	if m.MostExpensive != nil {
		fmt.Fprintf(w, "  Most Expensive          : %s\n", m.MostExpensive)
	}

	if len(m.ListingsByBedrooms) > 0 {
		section(w, "LISTINGS PER BEDROOM COUNT", thin)
		bedrooms := make([]int, 0, len(m.ListingsByBedrooms))
		largest := 0
		for b, n := range m.ListingsByBedrooms {
			bedrooms = append(bedrooms, b)
			largest = max(largest, n)
		}
		sort.Ints(bedrooms)
		for _, b := range bedrooms {
			n := m.ListingsByBedrooms[b]
			fmt.Fprintf(w, "  %-25s %4d  %s\n", fmt.Sprintf("%d bedroom(s):", b), n, bar(n, largest))
		}
	}

	if len(m.TopRated) > 0 {
		section(w, fmt.Sprintf("TOP %d HIGHEST RATED", len(m.TopRated)), thin)
		for i, l := range m.TopRated {
			fmt.Fprintf(w, "  %d. %-35s %4.1f  (%d reviews)\n", i+1, truncate(l.Name, 35), l.Rating, l.ReviewsCount)
		}
	}
}

func printModel(w io.Writer, report *models.AnalysisReport, thin string) {
	m := report.Metrics
	section(w, "ADAPTIVE PRICING MODEL", thin)
	fmt.Fprintf(w, "  Linear Regression R²  : %.3f\n", m.LinearR2)
	fmt.Fprintf(w, "  Random Forest R²      : %.3f\n", m.ForestR2)
	fmt.Fprintf(w, "  Selected Model        : %s (R² %.3f, MAE %.2f lei)\n", m.BestModel, m.BestR2, m.BestMAE)
	if report.PredictedPrice != nil {
		fmt.Fprintf(w, "  Predicted Price       : %s\n", color.GreenString("%.2f lei/night", *report.PredictedPrice))
	}

	if len(report.Attributions) == 0 {
		faintColor.Fprintf(w, "  No feature attribution for the linear model.\n")
		return
	}

	section(w, "PRICE DRIVERS", thin)
	if report.AttributionsBase != nil {
		fmt.Fprintf(w, "  Market baseline       : %.2f lei/night\n", *report.AttributionsBase)
	}
	features := make([]string, 0, len(report.Attributions))
	for name := range report.Attributions {
		features = append(features, name)
	}
	sort.Slice(features, func(i, j int) bool {
		a, b := math.Abs(report.Attributions[features[i]]), math.Abs(report.Attributions[features[j]])
		if a != b {
			return a > b
		}
		return features[i] < features[j]
	})
	for _, name := range features {
		v := report.Attributions[name]
		c := color.New(color.FgGreen)
		if v < 0 {
			c = color.New(color.FgRed)
		}
		fmt.Fprintf(w, "  %-21s : %s\n", name, c.Sprintf("%+.2f lei", v))
	}
}

func section(w io.Writer, title, thin string) {
	fmt.Fprintf(w, "\n %s\n%s\n", headingColor.Sprint(title), thin)
}

func verdictColor(v models.Verdict) *color.Color {
	switch v {
	case models.VerdictUnderpriced:
		return color.New(color.FgYellow, color.Bold)
	case models.VerdictOverpriced:
		return color.New(color.FgRed, color.Bold)
	case models.VerdictCompetitive:
		return color.New(color.FgGreen, color.Bold)
	default:
		return faintColor
	}
}

// bar scales n against largest so wide markets still fit on one line
func bar(n, largest int) string {
	if largest <= 0 {
		return ""
	}
	width := n * maxBarWidth / largest
	if n > 0 && width == 0 {
		width = 1
	}
	return strings.Repeat("▓", width)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
