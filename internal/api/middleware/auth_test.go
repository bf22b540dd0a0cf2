package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/teste-tivit/secure-api/internal/core/domain"
)

type stubCodec struct {
	verifyFn func(ctx context.Context, token string) (*domain.Identity, error)
}

func (s *stubCodec) Mint(*domain.Identity) (string, error) { return "", nil }

func (s *stubCodec) MintWithTTL(*domain.Identity, time.Duration) (string, error) { return "", nil }

func (s *stubCodec) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	return s.verifyFn(ctx, token)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	codec := &stubCodec{
		verifyFn: func(_ context.Context, token string) (*domain.Identity, error) {
			if token != "good-token" {
				t.Fatalf("unexpected token %q", token)
			}
			return &domain.Identity{Username: "usuario", Role: domain.RoleUser, Active: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(codec)(func(c echo.Context) error {
		called = true
		identity, ok := IdentityFromContext(c)
		if !ok || identity.Username != "usuario" {
			t.Fatalf("identity not injected")
		}
		if c.Get("role") != domain.RoleUser {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(&stubCodec{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(&stubCodec{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RejectionsRenderUniformly(t *testing.T) {
	e := echo.New()
	for _, verifyErr := range []error{
		domain.ErrMalformedToken,
		domain.ErrTokenExpired,
		domain.ErrTokenAudience,
		domain.ErrUserInactive,
	} {
		codec := &stubCodec{
			verifyFn: func(context.Context, string) (*domain.Identity, error) {
				return nil, verifyErr
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer whatever")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := Auth(codec)(func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		})

		if err := handler(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%v: expected 401, got %d", verifyErr, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "invalid token") {
			t.Fatalf("%v: unexpected body %s", verifyErr, rec.Body.String())
		}
		if strings.Contains(rec.Body.String(), "tampering") {
			t.Fatalf("%v: generic rejection leaked detail: %s", verifyErr, rec.Body.String())
		}
	}
}

func TestAuthMiddleware_RoleTamperingReportedDistinctly(t *testing.T) {
	e := echo.New()
	codec := &stubCodec{
		verifyFn: func(context.Context, string) (*domain.Identity, error) {
			return nil, domain.ErrRoleTampering
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(codec)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "role tampering detected") {
		t.Fatalf("expected distinct tampering message, got %s", rec.Body.String())
	}
}
