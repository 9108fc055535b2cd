package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/models"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/store"
)

const (
	// Limits accepted on the top-N views.
	minLimit     = 1
	maxLimit     = 500
	DefaultLimit = 10

	summaryTopN = 10
)

// EventCounter is the aggregation engine's view of the event store. The
// heavy lifting (group counts, ordering) stays in ClickHouse; the engine
// only assembles rows into API shapes.
type EventCounter interface {
	CountBySourceAndType(ctx context.Context) ([]store.SourceTypeCount, error)
	CountBySource(ctx context.Context, limit int) ([]models.SourceCount, error)
	CountByCountry(ctx context.Context, limit int) ([]models.CountryCount, error)
	CountByTypeSince(ctx context.Context, since time.Time) (map[string]uint64, error)
	RecentEvents(ctx context.Context, limit int) ([]models.AnalyticsEvent, error)
}

// Engine computes derived funnel views over the append-only event log.
// All views are recomputed per call; nothing is cached.
type Engine struct {
	events EventCounter
	now    func() time.Time
}

func NewEngine(events EventCounter) *Engine {
	return &Engine{events: events, now: time.Now}
}

// ClampLimit normalizes a raw limit query value. Non-numeric or absent
// input falls back to DefaultLimit; out-of-range values are clamped.
func ClampLimit(raw string) int {
	if raw == "" {
		return DefaultLimit
	}
	var limit int
	if _, err := fmt.Sscanf(raw, "%d", &limit); err != nil {
		return DefaultLimit
	}
	if limit < minLimit {
		return minLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// Funnels returns one conversion funnel per source seen in the log,
// sorted by conversion rate descending. form_error events establish a
// source but are not part of any funnel counter.
func (e *Engine) Funnels(ctx context.Context) ([]models.ConversionFunnel, error) {
	rows, err := e.events.CountBySourceAndType(ctx)
	if err != nil {
		return nil, err
	}

	bySource := make(map[string]*models.ConversionFunnel)
	for _, row := range rows {
		funnel, ok := bySource[row.Source]
		if !ok {
			funnel = &models.ConversionFunnel{Source: row.Source}
			bySource[row.Source] = funnel
		}
		switch row.EventType {
		case models.EventPageView:
			funnel.PageViews = row.Count
		case models.EventFormStart:
			funnel.FormStarts = row.Count
		case models.EventFormSubmit:
			funnel.FormSubmissions = row.Count
		case models.EventFormSuccess:
			funnel.SuccessfulSignups = row.Count
		}
	}

	funnels := make([]models.ConversionFunnel, 0, len(bySource))
	for _, funnel := range bySource {
		if funnel.PageViews > 0 {
			funnel.ConversionRate = float64(funnel.SuccessfulSignups) / float64(funnel.PageViews) * 100
		}
		funnels = append(funnels, *funnel)
	}

	sort.Slice(funnels, func(i, j int) bool {
		if funnels[i].ConversionRate != funnels[j].ConversionRate {
			return funnels[i].ConversionRate > funnels[j].ConversionRate
		}
		return funnels[i].Source < funnels[j].Source
	})
	return funnels, nil
}

func (e *Engine) TopSources(ctx context.Context, limit int) ([]models.SourceCount, error) {
	return e.events.CountBySource(ctx, limit)
}

func (e *Engine) TopCountries(ctx context.Context, limit int) ([]models.CountryCount, error) {
	return e.events.CountByCountry(ctx, limit)
}

func (e *Engine) RecentEvents(ctx context.Context, limit int) ([]models.AnalyticsEvent, error) {
	return e.events.RecentEvents(ctx, limit)
}

func windowFromCounts(counts map[string]uint64) models.WindowCounts {
	window := models.WindowCounts{
		PageViews:         counts[models.EventPageView],
		FormStarts:        counts[models.EventFormStart],
		FormSubmissions:   counts[models.EventFormSubmit],
		SuccessfulSignups: counts[models.EventFormSuccess],
	}
	for _, count := range counts {
		window.Events += count
	}
	return window
}

// Summary buckets the whole log into total / last-24h / last-7d windows
// and embeds the current funnel and top-N views.
func (e *Engine) Summary(ctx context.Context) (*models.Summary, error) {
	now := e.now()

	windows := []struct {
		since time.Time
		dest  *models.WindowCounts
	}{
		{time.Time{}, nil},
		{now.Add(-24 * time.Hour), nil},
		{now.Add(-7 * 24 * time.Hour), nil},
	}

	summary := &models.Summary{}
	windows[0].dest = &summary.Total
	windows[1].dest = &summary.Today
	windows[2].dest = &summary.Week

	for _, w := range windows {
		counts, err := e.events.CountByTypeSince(ctx, w.since)
		if err != nil {
			return nil, err
		}
		*w.dest = windowFromCounts(counts)
	}

	funnels, err := e.Funnels(ctx)
	if err != nil {
		return nil, err
	}
	summary.Funnels = funnels

	topSources, err := e.events.CountBySource(ctx, summaryTopN)
	if err != nil {
		return nil, err
	}
	summary.TopSources = topSources

	topCountries, err := e.events.CountByCountry(ctx, summaryTopN)
	if err != nil {
		return nil, err
	}
	summary.TopCountries = topCountries

	return summary, nil
}
