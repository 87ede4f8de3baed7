package models

import "encoding/json"

// WebhookEvent is the envelope Walver posts to a verification's webhook.
type WebhookEvent struct {
	ID             string          `json:"id"`   // unique per delivery, used for replay protection
	Type           string          `json:"type"` // e.g. "verification.completed"
	VerificationID string          `json:"verification_id"`
	CreatedAt      string          `json:"created_at,omitempty"`
	Data           json.RawMessage `json:"data,omitempty"`
}
