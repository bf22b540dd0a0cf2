package ports

import (
	"context"
	"time"

	"github.com/teste-tivit/secure-api/internal/core/domain"
)

// Authenticator decides whether a username/password pair is valid,
// independent of timing signal, and returns the authenticated identity.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Identity, error)
}

// TokenCodec mints and verifies signed bearer tokens carrying a role claim
// and its integrity tag.
type TokenCodec interface {
	Mint(identity *domain.Identity) (string, error)
	// MintWithTTL mints a token with an explicit validity window; intended
	// for callers that need a non-default lifetime.
	MintWithTTL(identity *domain.Identity, ttl time.Duration) (string, error)
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}
