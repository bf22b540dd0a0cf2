package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/teste-tivit/secure-api/internal/api/metrics"
	"github.com/teste-tivit/secure-api/internal/core/domain"
	"github.com/teste-tivit/secure-api/internal/core/ports"
)

// identityKey is the context key under which Auth stores the verified identity.
const identityKey = "identity"

// Auth extracts the bearer token, runs it through the codec (signature, time
// window, issuer/audience, role integrity, user re-resolution) and injects
// the resulting identity into the request context.
//
// Every rejection renders as a generic 401 except role tampering, which is
// reported with a distinct message so tampering attempts are loudly visible.
// The per-reason breakdown is always recorded in metrics.
func Auth(codec ports.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			identity, err := codec.Verify(c.Request().Context(), parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues(verifyResult(err)).Inc()
				if errors.Is(err, domain.ErrRoleTampering) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token: role tampering detected")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()

			c.Set(identityKey, identity)
			c.Set("username", identity.Username)
			c.Set("role", identity.Role)

			return next(c)
		}
	}
}

// IdentityFromContext returns the identity injected by Auth.
func IdentityFromContext(c echo.Context) (*domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(*domain.Identity)
	return identity, ok
}

func verifyResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenAudience):
		return "audience"
	case errors.Is(err, domain.ErrRoleTampering):
		return "role_tampering"
	case errors.Is(err, domain.ErrUserInactive):
		return "user_inactive"
	case errors.Is(err, domain.ErrMalformedToken):
		return "malformed"
	default:
		return "error"
	}
}
