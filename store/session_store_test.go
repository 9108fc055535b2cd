package store

import (
	"encoding/hex"
	"testing"
	"time"
)

func TestSessionCreateAndValidate(t *testing.T) {
	s := NewSessionStore()

	session, err := s.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if len(session.Token) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(session.Token))
	}
	if _, err := hex.DecodeString(session.Token); err != nil {
		t.Errorf("token is not hex: %v", err)
	}
	if !session.IsAdmin {
		t.Error("sessions are always admin sessions")
	}

	if !s.Validate(session.Token) {
		t.Error("freshly created session must validate")
	}
	if s.Validate("") {
		t.Error("empty token must not validate")
	}
	if s.Validate("deadbeef") {
		t.Error("unknown token must not validate")
	}
}

func TestSessionTokensUnique(t *testing.T) {
	s := NewSessionStore()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		session, err := s.Create()
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		if seen[session.Token] {
			t.Fatalf("duplicate token issued: %s", session.Token)
		}
		seen[session.Token] = true
	}
}

func TestSessionExpiryBoundary(t *testing.T) {
	s := NewSessionStore()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return created }
	session, err := s.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Strictly before the 24h mark the session is live.
	s.now = func() time.Time { return created.Add(24*time.Hour - time.Second) }
	if !s.Validate(session.Token) {
		t.Error("session must validate just before expiry")
	}

	// Strictly after, it is rejected and evicted from the table.
	s.now = func() time.Time { return created.Add(24*time.Hour + time.Second) }
	if s.Validate(session.Token) {
		t.Error("session must not validate after expiry")
	}
	if s.Len() != 0 {
		t.Errorf("expired session must be evicted on discovery, store has %d entries", s.Len())
	}

	// Even if the clock moves back, the evicted session stays gone.
	s.now = func() time.Time { return created }
	if s.Validate(session.Token) {
		t.Error("evicted session must stay invalid")
	}
}

func TestSessionDeleteIdempotent(t *testing.T) {
	s := NewSessionStore()
	session, err := s.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	s.Delete(session.Token)
	if s.Validate(session.Token) {
		t.Error("deleted session must not validate")
	}

	// Second delete of the same token is a no-op.
	s.Delete(session.Token)
	s.Delete("never-existed")
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", s.Len())
	}
}
