package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const tokenLength = 32

// UnsubscribeTokenService mints and verifies the capability tokens embedded
// in unsubscribe links. Tokens are deterministic for a given email while
// the secret is unchanged: a truncated HMAC, not a session. Rotating the
// secret invalidates every outstanding link.
type UnsubscribeTokenService struct {
	secret []byte
}

// NewUnsubscribeTokenService fails on an empty secret so a missing
// configuration can never verify every token as valid.
func NewUnsubscribeTokenService(secret string) (*UnsubscribeTokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("unsubscribe secret is not configured")
	}
	return &UnsubscribeTokenService{secret: []byte(secret)}, nil
}

// GenerateToken returns the first 32 hex characters of
// HMAC-SHA256(normalized email).
func (s *UnsubscribeTokenService) GenerateToken(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(normalized))
	return hex.EncodeToString(mac.Sum(nil))[:tokenLength]
}

// VerifyToken recomputes the expected token and compares in constant
// time. A length mismatch is an immediate false, never an error.
func (s *UnsubscribeTokenService) VerifyToken(email, token string) bool {
	expected := s.GenerateToken(email)
	if len(token) != len(expected) {
		return false
	}
	return hmac.Equal([]byte(token), []byte(expected))
}
