package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/analytics"
)

// Most recent events returned by the events view; the log itself is
// unbounded.
const eventViewLimit = 1000

type AnalyticsHandlers struct {
	Engine *analytics.Engine
}

func NewAnalyticsHandlers(engine *analytics.Engine) *AnalyticsHandlers {
	return &AnalyticsHandlers{Engine: engine}
}

// GetAnalytics serves every aggregation view behind one endpoint:
// ?type= selects the view, ?limit= caps the top-N views, ?format=csv
// switches to a CSV attachment. Read failures surface as 500 — unlike
// ingestion, the caller here must know the data is missing.
func (h *AnalyticsHandlers) GetAnalytics(c *gin.Context) {
	viewKind := c.DefaultQuery("type", analytics.ViewSummary)
	if !analytics.IsValidView(viewKind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type. Must be one of: summary, funnels, events, sources, countries"})
		return
	}

	limit := analytics.ClampLimit(c.Query("limit"))
	format := c.DefaultQuery("format", "json")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var data interface{}
	var err error
	switch viewKind {
	case analytics.ViewSummary:
		data, err = h.Engine.Summary(ctx)
	case analytics.ViewFunnels:
		data, err = h.Engine.Funnels(ctx)
	case analytics.ViewEvents:
		data, err = h.Engine.RecentEvents(ctx, eventViewLimit)
	case analytics.ViewSources:
		data, err = h.Engine.TopSources(ctx, limit)
	case analytics.ViewCountries:
		data, err = h.Engine.TopCountries(ctx, limit)
	}
	if err != nil {
		log.Printf("Error computing analytics view %s: %v", viewKind, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analytics"})
		return
	}

	if format == "csv" {
		filename := fmt.Sprintf("analytics-%s-%s.csv", viewKind, time.Now().UTC().Format("2006-01-02"))
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.String(http.StatusOK, analytics.ToCSV(viewKind, data))
		return
	}

	c.JSON(http.StatusOK, data)
}
