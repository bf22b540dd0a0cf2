package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/teste-tivit/secure-api/internal/core/domain"
)

// ExternalResult is the decoded outcome of one downstream request.
type ExternalResult struct {
	Data       json.RawMessage
	StatusCode int
}

// ExternalClient talks to the downstream fake API.
type ExternalClient interface {
	Get(ctx context.Context, endpoint string) (*ExternalResult, error)
	PostToken(ctx context.Context, notification domain.TokenNotification) (*ExternalResult, error)
}

// ExternalDataRepository persists captured downstream payloads.
type ExternalDataRepository interface {
	// Save stores the record and returns its generated id.
	Save(ctx context.Context, data *domain.ExternalData) (string, error)
	FindRecent(ctx context.Context, limit int) ([]domain.ExternalData, error)
}

// ResponseCache holds downstream GET responses for a short TTL so repeated
// protected-route hits do not hammer the downstream service.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// FetchResult is what the external service hands back to the route layer.
type FetchResult struct {
	Data       json.RawMessage `json:"data"`
	StatusCode int             `json:"status_code"`
	StoredID   string          `json:"stored_id,omitempty"`
	Cached     bool            `json:"cached,omitempty"`
}

// ExternalService fetches downstream data, persists it, and reports the
// outcome to the route layer.
type ExternalService interface {
	FetchAndStore(ctx context.Context, endpoint string) (*FetchResult, error)
	NotifyToken(ctx context.Context, notification domain.TokenNotification)
	Recent(ctx context.Context, limit int) ([]domain.ExternalData, error)
}
