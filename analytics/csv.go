package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/models"
)

// View kinds accepted by the analytics endpoint and the CSV exporter.
const (
	ViewSummary   = "summary"
	ViewFunnels   = "funnels"
	ViewEvents    = "events"
	ViewSources   = "sources"
	ViewCountries = "countries"
)

func IsValidView(kind string) bool {
	switch kind {
	case ViewSummary, ViewFunnels, ViewEvents, ViewSources, ViewCountries:
		return true
	default:
		return false
	}
}

// ToCSV renders an aggregation view as CSV text. Fields are comma-joined
// with no quoting or escaping; that is the contract consumers parse, so
// adding RFC 4180 quoting here would be a breaking change. A payload that
// does not match the view kind yields an empty string.
func ToCSV(kind string, data interface{}) string {
	switch kind {
	case ViewEvents:
		events, ok := data.([]models.AnalyticsEvent)
		if !ok {
			return ""
		}
		return eventsCSV(events)
	case ViewFunnels:
		funnels, ok := data.([]models.ConversionFunnel)
		if !ok {
			return ""
		}
		return funnelsCSV(funnels)
	case ViewSources:
		sources, ok := data.([]models.SourceCount)
		if !ok {
			return ""
		}
		return sourcesCSV(sources)
	case ViewCountries:
		countries, ok := data.([]models.CountryCount)
		if !ok {
			return ""
		}
		return countriesCSV(countries)
	case ViewSummary:
		summary, ok := data.(*models.Summary)
		if !ok || summary == nil {
			return ""
		}
		return summaryCSV(summary)
	default:
		return ""
	}
}

func writeRow(b *strings.Builder, fields ...string) {
	b.WriteString(strings.Join(fields, ","))
	b.WriteString("\n")
}

func eventsCSV(events []models.AnalyticsEvent) string {
	var b strings.Builder
	writeRow(&b, "Event ID", "Type", "Source", "Page", "Country", "Session ID", "Timestamp")
	for _, e := range events {
		country := ""
		if e.Country != nil {
			country = *e.Country
		}
		writeRow(&b, e.EventID, e.EventType, e.Source, e.Page, country, e.SessionID, e.Timestamp.UTC().Format(time.RFC3339))
	}
	return b.String()
}

func funnelsCSV(funnels []models.ConversionFunnel) string {
	var b strings.Builder
	writeRow(&b, "Source", "Page Views", "Form Starts", "Form Submissions", "Successful Signups", "Conversion Rate")
	for _, f := range funnels {
		writeRow(&b,
			f.Source,
			fmt.Sprintf("%d", f.PageViews),
			fmt.Sprintf("%d", f.FormStarts),
			fmt.Sprintf("%d", f.FormSubmissions),
			fmt.Sprintf("%d", f.SuccessfulSignups),
			fmt.Sprintf("%.2f%%", f.ConversionRate),
		)
	}
	return b.String()
}

func sourcesCSV(sources []models.SourceCount) string {
	var b strings.Builder
	writeRow(&b, "Source", "Count")
	for _, s := range sources {
		writeRow(&b, s.Source, fmt.Sprintf("%d", s.Count))
	}
	return b.String()
}

func countriesCSV(countries []models.CountryCount) string {
	var b strings.Builder
	writeRow(&b, "Country", "Count")
	for _, c := range countries {
		writeRow(&b, c.Country, fmt.Sprintf("%d", c.Count))
	}
	return b.String()
}

// summaryCSV emits a fixed table: header plus one row per tracked metric.
func summaryCSV(summary *models.Summary) string {
	var b strings.Builder
	writeRow(&b, "Metric", "Total", "Today", "This Week")

	metrics := []struct {
		name  string
		value func(models.WindowCounts) uint64
	}{
		{"Total Events", func(w models.WindowCounts) uint64 { return w.Events }},
		{"Page Views", func(w models.WindowCounts) uint64 { return w.PageViews }},
		{"Form Starts", func(w models.WindowCounts) uint64 { return w.FormStarts }},
		{"Form Submissions", func(w models.WindowCounts) uint64 { return w.FormSubmissions }},
		{"Successful Signups", func(w models.WindowCounts) uint64 { return w.SuccessfulSignups }},
	}
	for _, m := range metrics {
		writeRow(&b,
			m.name,
			fmt.Sprintf("%d", m.value(summary.Total)),
			fmt.Sprintf("%d", m.value(summary.Today)),
			fmt.Sprintf("%d", m.value(summary.Week)),
		)
	}
	return b.String()
}
