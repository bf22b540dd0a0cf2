package ports

import (
	"context"

	"github.com/teste-tivit/secure-api/internal/core/domain"
)

// UserRepository is the credential-lookup capability consumed by the
// authenticator and the token codec.
type UserRepository interface {
	// FindByUsername returns the credential record for username, or
	// domain.ErrUserNotFound when no such record exists.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
