package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/geo"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/models"
)

// EventWriter persists events. Implemented by store.EventStore.
type EventWriter interface {
	InsertEvent(ctx context.Context, event models.AnalyticsEvent) error
}

// GeoResolver enriches an IP with location data. Implemented by
// geo.Resolver; must never fail.
type GeoResolver interface {
	Resolve(ctx context.Context, ip string) geo.GeoInfo
}

// Ingestor builds and persists analytics events. Ingestion is best
// effort: the returned error exists for logging, and the HTTP layer never
// turns it into a failed response.
type Ingestor struct {
	events   EventWriter
	resolver GeoResolver
}

func NewIngestor(events EventWriter, resolver GeoResolver) *Ingestor {
	return &Ingestor{events: events, resolver: resolver}
}

func (i *Ingestor) Ingest(ctx context.Context, req models.TrackRequest, ip, userAgent string) error {
	info := i.resolver.Resolve(ctx, ip)

	var country *string
	if info.Country != "" {
		country = &info.Country
	}

	event := models.AnalyticsEvent{
		EventID:   uuid.New().String(),
		EventType: req.Type,
		Source:    ClassifySource(req.Source),
		Page:      req.Page,
		UserAgent: userAgent,
		IPAddress: ip,
		Country:   country,
		SessionID: req.SessionID,
		Timestamp: time.Now().UTC(),
	}

	return i.events.InsertEvent(ctx, event)
}
