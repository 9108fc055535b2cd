package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/models"
)

// SubscriberStore manages durable unsubscribe state in Postgres. Rows are
// keyed by the normalized email and never deleted.
type SubscriberStore struct {
	db *sql.DB
}

func NewSubscriberStore(db *sql.DB) *SubscriberStore {
	return &SubscriberStore{db: db}
}

// NormalizeEmail lowercases and trims an address; every store operation
// and the token service key off this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *SubscriberStore) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	sub := &models.Subscriber{}
	var unsubscribedAt sql.NullTime
	var reason sql.NullString

	query := `
		SELECT email, unsubscribed, unsubscribed_at, unsubscribe_reason
		FROM subscribers
		WHERE email = $1;
	`
	err := s.db.QueryRowContext(ctx, query, NormalizeEmail(email)).Scan(
		&sub.Email,
		&sub.Unsubscribed,
		&unsubscribedAt,
		&reason,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("subscriber '%s' not found", NormalizeEmail(email))
		}
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}

	if unsubscribedAt.Valid {
		sub.UnsubscribedAt = &unsubscribedAt.Time
	}
	if reason.Valid {
		sub.UnsubscribeReason = reason.String
	}
	return sub, nil
}

// Unsubscribe marks a subscriber as unsubscribed. Idempotent: an already
// unsubscribed or unknown email is a no-op success. The conditional UPDATE
// serializes concurrent calls on the same row, so exactly one of them
// mutates and sets unsubscribed_at.
func (s *SubscriberStore) Unsubscribe(ctx context.Context, email, reason string) error {
	query := `
		UPDATE subscribers
		SET unsubscribed = TRUE,
		    unsubscribed_at = NOW(),
		    unsubscribe_reason = NULLIF($2, '')
		WHERE email = $1 AND unsubscribed = FALSE;
	`
	result, err := s.db.ExecContext(ctx, query, NormalizeEmail(email), reason)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe '%s': %w", NormalizeEmail(email), err)
	}

	// Zero rows means the record was already unsubscribed (or was never
	// subscribed). Both count as success.
	if _, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read unsubscribe result: %w", err)
	}
	return nil
}
