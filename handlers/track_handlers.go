package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/analytics"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/models"
)

type TrackHandlers struct {
	Ingestor *analytics.Ingestor
}

func NewTrackHandlers(ingestor *analytics.Ingestor) *TrackHandlers {
	return &TrackHandlers{Ingestor: ingestor}
}

// TrackEvent ingests one funnel event. Validation failures are a 400 so
// the page can fix its payload, but ingestion failures are reported as
// 200 {"success":false}: an analytics hiccup must never break the page
// that emitted the event.
func (h *TrackHandlers) TrackEvent(c *gin.Context) {
	var req models.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.Ingestor.Ingest(ctx, req, c.ClientIP(), c.Request.UserAgent()); err != nil {
		log.Printf("Error ingesting analytics event (session %s): %v", req.SessionID, err)
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
