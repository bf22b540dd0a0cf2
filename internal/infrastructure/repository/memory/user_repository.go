// Package memory holds the fixed in-memory credential set. The service
// authenticates against a closed user list; there is no registration flow.
package memory

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/teste-tivit/secure-api/internal/core/domain"
)

// UserRepository is an in-memory ports.UserRepository. Lookups are guarded by
// a read lock; SetActive exists so operators (and tests) can revoke access by
// deactivation without a restart.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// seedUser is a plaintext seed entry, hashed at construction.
type seedUser struct {
	username string
	password string
	role     string
	active   bool
}

// defaultSeed is the fixed credential set the service ships with.
var defaultSeed = []seedUser{
	{username: "usuario", password: "L0XuwPOdS5U", role: domain.RoleUser, active: true},
	{username: "admin", password: "JKSipm0YH", role: domain.RoleAdmin, active: true},
}

// NewUserRepository builds a repository containing exactly the given users.
func NewUserRepository(users ...domain.User) *UserRepository {
	r := &UserRepository{users: make(map[string]domain.User, len(users))}
	for _, u := range users {
		r.users[u.Username] = u
	}
	return r
}

// NewFixedUserRepository builds the repository with the default credential
// set, hashing each seed password with bcrypt.
func NewFixedUserRepository() (*UserRepository, error) {
	users := make([]domain.User, 0, len(defaultSeed))
	for _, s := range defaultSeed {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", s.username, err)
		}
		tag, ok := domain.ExpectedRoleTag(s.role)
		if !ok {
			return nil, fmt.Errorf("seed user %s: no integrity tag for role %q", s.username, s.role)
		}
		users = append(users, domain.User{
			Username:     s.username,
			PasswordHash: string(hash),
			Role:         s.role,
			RoleTag:      tag,
			Active:       s.active,
		})
	}
	return NewUserRepository(users...), nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := u
	return &clone, nil
}

// SetActive flips the active flag for username.
func (r *UserRepository) SetActive(username string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Active = active
	r.users[username] = u
	return nil
}
