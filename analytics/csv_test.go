package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/models"
)

func TestToCSVFunnels(t *testing.T) {
	funnels := []models.ConversionFunnel{
		{Source: "google", PageViews: 3, FormStarts: 2, FormSubmissions: 1, SuccessfulSignups: 1, ConversionRate: 33.333333},
	}

	out := ToCSV(ViewFunnels, funnels)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "Source,Page Views,Form Starts,Form Submissions,Successful Signups,Conversion Rate" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "google,3,2,1,1,33.33%" {
		t.Errorf("unexpected row: %q", lines[1])
	}
}

func TestToCSVDoesNotEscapeCommas(t *testing.T) {
	// Embedded commas pass through unquoted. That is the exported
	// contract, however lossy.
	sources := []models.SourceCount{{Source: "a,b", Count: 2}}
	out := ToCSV(ViewSources, sources)
	if !strings.Contains(out, "a,b,2\n") {
		t.Errorf("expected raw comma-joined row, got %q", out)
	}
	if strings.Contains(out, `"`) {
		t.Errorf("expected no quoting, got %q", out)
	}
}

func TestToCSVSummaryShape(t *testing.T) {
	summary := &models.Summary{
		Total: models.WindowCounts{Events: 10, PageViews: 6, FormStarts: 2, FormSubmissions: 1, SuccessfulSignups: 1},
		Today: models.WindowCounts{Events: 3, PageViews: 2},
		Week:  models.WindowCounts{Events: 7, PageViews: 4, SuccessfulSignups: 1},
	}

	out := ToCSV(ViewSummary, summary)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("summary must be exactly 6 rows, got %d", len(lines))
	}
	if lines[0] != "Metric,Total,Today,This Week" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "Total Events,10,3,7" {
		t.Errorf("unexpected events row: %q", lines[1])
	}
	if lines[5] != "Successful Signups,1,0,1" {
		t.Errorf("unexpected signups row: %q", lines[5])
	}
}

func TestToCSVEvents(t *testing.T) {
	country := "Germany"
	events := []models.AnalyticsEvent{
		{
			EventID:   "id-1",
			EventType: models.EventPageView,
			Source:    "direct",
			Page:      "/waitlist",
			Country:   &country,
			SessionID: "s1",
			Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{EventID: "id-2", EventType: models.EventFormStart, Source: "direct", Page: "/waitlist", SessionID: "s1"},
	}

	out := ToCSV(ViewEvents, events)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(lines))
	}
	if lines[1] != "id-1,page_view,direct,/waitlist,Germany,s1,2026-03-01T12:00:00Z" {
		t.Errorf("unexpected event row: %q", lines[1])
	}
	// Nil country renders as an empty field.
	if !strings.Contains(lines[2], "/waitlist,,s1") {
		t.Errorf("expected empty country field, got %q", lines[2])
	}
}

func TestToCSVMalformedInput(t *testing.T) {
	if out := ToCSV("bogus", []models.SourceCount{}); out != "" {
		t.Errorf("unknown kind should yield empty string, got %q", out)
	}
	if out := ToCSV(ViewFunnels, "not a funnel slice"); out != "" {
		t.Errorf("mismatched payload should yield empty string, got %q", out)
	}
	if out := ToCSV(ViewSummary, nil); out != "" {
		t.Errorf("nil summary should yield empty string, got %q", out)
	}
}
