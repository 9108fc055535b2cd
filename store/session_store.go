package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

const sessionTTL = 24 * time.Hour

// AdminSession is one issued bearer credential. Sessions live only in
// process memory and are lost on restart.
type AdminSession struct {
	Token     string
	ExpiresAt time.Time
	IsAdmin   bool
}

// SessionStore holds admin sessions in a mutex-guarded map. There is no
// stored status flag: expiry is computed against ExpiresAt at validation
// time, and an expired session is evicted on first discovery.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*AdminSession

	// now is swappable so tests can cross the 24h boundary.
	now func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*AdminSession),
		now:      time.Now,
	}
}

// Create issues a fresh session and returns its token: 32 random bytes,
// hex encoded, so 64 characters of entropy unique per login.
func (s *SessionStore) Create() (*AdminSession, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &AdminSession{
		Token:     hex.EncodeToString(b),
		ExpiresAt: s.now().Add(sessionTTL),
		IsAdmin:   true,
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session, nil
}

// Validate reports whether token names a live session. Expired entries are
// removed here rather than by a background sweep.
func (s *SessionStore) Validate(token string) bool {
	if token == "" {
		return false
	}

	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return false
	}

	if s.now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return false
	}
	return true
}

// Delete removes a session. Unknown tokens are a no-op, so logout is
// idempotent.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Len reports the number of stored sessions, expired or not.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
