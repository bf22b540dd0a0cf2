package domain

import (
	"encoding/json"
	"time"
)

// ExternalData is a response payload captured from the downstream service.
type ExternalData struct {
	ID         string          `json:"id,omitempty"`
	Source     string          `json:"source"`
	Payload    json.RawMessage `json:"payload"`
	StatusCode int             `json:"status_code"`
	FetchedAt  time.Time       `json:"fetched_at"`
}

// TokenNotification is the payload posted to the downstream service after a
// successful login.
type TokenNotification struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}
