package models

import "time"

// Subscriber is the durable unsubscribe state for one email, keyed by the
// lowercased/trimmed address. Records are never deleted.
type Subscriber struct {
	Email             string     `json:"email"`
	Unsubscribed      bool       `json:"unsubscribed"`
	UnsubscribedAt    *time.Time `json:"unsubscribedAt,omitempty"`
	UnsubscribeReason string     `json:"unsubscribeReason,omitempty"`
}

type AdminLoginRequest struct {
	AdminKey string `json:"adminKey" binding:"required"`
}

type UnsubscribeRequest struct {
	Email  string `json:"email" binding:"required"`
	Token  string `json:"token"`
	Reason string `json:"reason"`
}
