package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/teste-tivit/secure-api/internal/core/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) add(t *testing.T, username, password, role string, active bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	tag, _ := domain.ExpectedRoleTag(role)
	u := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		RoleTag:      tag,
		Active:       active,
	}
	r.users[username] = u
	return u
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(t, "usuario", "L0XuwPOdS5U", domain.RoleUser, true)
	repo.add(t, "admin", "JKSipm0YH", domain.RoleAdmin, true)
	svc := NewAuthService(repo)

	identity, err := svc.Authenticate(context.Background(), "usuario", "L0XuwPOdS5U")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if identity.Username != "usuario" || identity.Role != domain.RoleUser || !identity.Active {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	identity, err = svc.Authenticate(context.Background(), "admin", "JKSipm0YH")
	if err != nil {
		t.Fatalf("admin authenticate failed: %v", err)
	}
	if identity.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", identity.Role)
	}
}

func TestAuthService_Authenticate_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(t, "usuario", "correct", domain.RoleUser, true)
	svc := NewAuthService(repo)

	if _, err := svc.Authenticate(context.Background(), "usuario", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_UnknownUser(t *testing.T) {
	svc := NewAuthService(newStubUserRepo())

	if _, err := svc.Authenticate(context.Background(), "ghost", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_InactiveUser(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(t, "dormant", "secret", domain.RoleUser, false)
	svc := NewAuthService(repo)

	// Inactive accounts must be indistinguishable from wrong passwords.
	if _, err := svc.Authenticate(context.Background(), "dormant", "secret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_TamperedRoleTag(t *testing.T) {
	repo := newStubUserRepo()
	u := repo.add(t, "mallory", "secret", domain.RoleUser, true)
	u.RoleTag, _ = domain.ExpectedRoleTag(domain.RoleAdmin) // store record altered
	svc := NewAuthService(repo)

	if _, err := svc.Authenticate(context.Background(), "mallory", "secret"); !errors.Is(err, domain.ErrIntegrityViolation) {
		t.Fatalf("expected ErrIntegrityViolation, got %v", err)
	}
}

// The unknown-user path must run a full-cost dummy hash so its latency stays
// in the same band as a real failed verification. Without the dummy work the
// unknown-user path returns in microseconds while bcrypt takes tens of
// milliseconds, a factor far outside the 10x bound checked here.
func TestAuthService_Authenticate_TimingEqualization(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(t, "usuario", "correct", domain.RoleUser, true)
	svc := NewAuthService(repo)

	measure := func(username string) time.Duration {
		best := time.Duration(1<<62 - 1)
		for i := 0; i < 3; i++ {
			start := time.Now()
			_, _ = svc.Authenticate(context.Background(), username, "wrong")
			if d := time.Since(start); d < best {
				best = d
			}
		}
		return best
	}

	wrongPassword := measure("usuario")
	unknownUser := measure("ghost")

	if wrongPassword < time.Millisecond {
		t.Fatalf("wrong-password path suspiciously fast (%v); bcrypt not exercised?", wrongPassword)
	}
	if unknownUser*10 < wrongPassword {
		t.Fatalf("unknown-user path too fast: %v vs wrong-password %v", unknownUser, wrongPassword)
	}
}
