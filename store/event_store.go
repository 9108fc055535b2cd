// ClickHouse-backed append-only event log for the waitlist funnel.
//
// Reference DDL:
//
//	CREATE TABLE waitlist_events (
//	    event_id   String,
//	    event_type LowCardinality(String),
//	    source     LowCardinality(String),
//	    page       String,
//	    user_agent String,
//	    ip_address String,
//	    country    Nullable(String),
//	    session_id String,
//	    timestamp  DateTime
//	) ENGINE = MergeTree ORDER BY (timestamp);
package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/database"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/models"
)

type EventStore struct {
	DB *database.ClickHouseClient
}

func NewEventStore(chClient *database.ClickHouseClient) *EventStore {
	return &EventStore{DB: chClient}
}

// SourceTypeCount is one GROUP BY (source, event_type) row.
type SourceTypeCount struct {
	Source    string
	EventType string
	Count     uint64
}

func (s *EventStore) InsertEvent(ctx context.Context, event models.AnalyticsEvent) error {
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO waitlist_events (
			event_id, event_type, source, page, user_agent, ip_address, country, session_id, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare event insert: %w", err)
	}

	if err := batch.Append(
		event.EventID,
		event.EventType,
		event.Source,
		event.Page,
		event.UserAgent,
		event.IPAddress,
		event.Country,
		event.SessionID,
		event.Timestamp,
	); err != nil {
		return fmt.Errorf("failed to append event %s: %w", event.EventID, err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// CountBySourceAndType returns event counts grouped by (source, type),
// covering every source present in the log.
func (s *EventStore) CountBySourceAndType(ctx context.Context) ([]SourceTypeCount, error) {
	rows, err := s.DB.Conn.Query(ctx, `
		SELECT source, event_type, count() AS total
		FROM waitlist_events
		GROUP BY source, event_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts by source and type: %w", err)
	}
	defer rows.Close()

	var results []SourceTypeCount
	for rows.Next() {
		var row SourceTypeCount
		if err := rows.Scan(&row.Source, &row.EventType, &row.Count); err != nil {
			log.Printf("Error scanning source/type count row: %v", err)
			continue
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error scanning source/type counts: %w", err)
	}
	return results, nil
}

func (s *EventStore) CountBySource(ctx context.Context, limit int) ([]models.SourceCount, error) {
	rows, err := s.DB.Conn.Query(ctx, `
		SELECT source, count() AS total
		FROM waitlist_events
		GROUP BY source
		ORDER BY total DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top sources: %w", err)
	}
	defer rows.Close()

	var results []models.SourceCount
	for rows.Next() {
		var row models.SourceCount
		if err := rows.Scan(&row.Source, &row.Count); err != nil {
			log.Printf("Error scanning source count row: %v", err)
			continue
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error scanning top sources: %w", err)
	}
	return results, nil
}

func (s *EventStore) CountByCountry(ctx context.Context, limit int) ([]models.CountryCount, error) {
	rows, err := s.DB.Conn.Query(ctx, `
		SELECT coalesce(country, 'Unknown') AS country_name, count() AS total
		FROM waitlist_events
		GROUP BY country_name
		ORDER BY total DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top countries: %w", err)
	}
	defer rows.Close()

	var results []models.CountryCount
	for rows.Next() {
		var row models.CountryCount
		if err := rows.Scan(&row.Country, &row.Count); err != nil {
			log.Printf("Error scanning country count row: %v", err)
			continue
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error scanning top countries: %w", err)
	}
	return results, nil
}

// CountByTypeSince returns per-type event counts for events at or after
// since. A zero since counts the whole log.
func (s *EventStore) CountByTypeSince(ctx context.Context, since time.Time) (map[string]uint64, error) {
	query := `SELECT event_type, count() AS total FROM waitlist_events`
	var args []interface{}
	if !since.IsZero() {
		query += ` WHERE timestamp >= ?`
		args = append(args, since)
	}
	query += ` GROUP BY event_type`

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]uint64)
	for rows.Next() {
		var eventType string
		var count uint64
		if err := rows.Scan(&eventType, &count); err != nil {
			log.Printf("Error scanning type count row: %v", err)
			continue
		}
		counts[eventType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error scanning type counts: %w", err)
	}
	return counts, nil
}

// RecentEvents returns the newest events, most recent first.
func (s *EventStore) RecentEvents(ctx context.Context, limit int) ([]models.AnalyticsEvent, error) {
	rows, err := s.DB.Conn.Query(ctx, `
		SELECT event_id, event_type, source, page, user_agent, ip_address, country, session_id, timestamp
		FROM waitlist_events
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent events: %w", err)
	}
	defer rows.Close()

	var results []models.AnalyticsEvent
	for rows.Next() {
		var event models.AnalyticsEvent
		if err := rows.Scan(
			&event.EventID,
			&event.EventType,
			&event.Source,
			&event.Page,
			&event.UserAgent,
			&event.IPAddress,
			&event.Country,
			&event.SessionID,
			&event.Timestamp,
		); err != nil {
			log.Printf("Error scanning event row: %v", err)
			continue
		}
		results = append(results, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error scanning recent events: %w", err)
	}
	return results, nil
}
