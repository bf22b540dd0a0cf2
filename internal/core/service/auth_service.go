package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/teste-tivit/secure-api/internal/core/domain"
	"github.com/teste-tivit/secure-api/internal/core/ports"
)

// dummyHash is a precomputed bcrypt hash (cost 10) of an arbitrary string.
// When a username does not exist we still run a full bcrypt comparison
// against it, so "unknown user" and "wrong password" cost the same and
// usernames cannot be enumerated through response latency.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService validates credentials against the user repository.
type AuthService struct {
	users ports.UserRepository
}

func NewAuthService(users ports.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Authenticate checks username/password and returns the identity on success.
//
// All user-caused failures return domain.ErrInvalidCredentials; the caller
// cannot tell an unknown user from a wrong password or an inactive account.
// The bcrypt comparison runs before the active-flag check so the inactive
// path costs the same as the wrong-password path.
//
// A role-tag mismatch on the stored record is not a user error: it means the
// credential store itself was altered, and surfaces as
// domain.ErrIntegrityViolation.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Identity, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	pwErr := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if pwErr != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, domain.ErrInvalidCredentials
	}

	if !domain.ValidateRoleTag(user.Role, user.RoleTag) {
		return nil, domain.ErrIntegrityViolation
	}

	return &domain.Identity{
		Username: user.Username,
		Role:     user.Role,
		Active:   user.Active,
	}, nil
}
