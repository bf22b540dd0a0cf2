package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teste-tivit/secure-api/internal/api/metrics"
	"github.com/teste-tivit/secure-api/internal/core/domain"
	"github.com/teste-tivit/secure-api/internal/core/ports"
)

// AuthHandler issues tokens for valid credentials.
type AuthHandler struct {
	auth     ports.Authenticator
	codec    ports.TokenCodec
	external ports.ExternalService
}

func NewAuthHandler(auth ports.Authenticator, codec ports.TokenCodec, external ports.ExternalService) *AuthHandler {
	return &AuthHandler{auth: auth, codec: codec, external: external}
}

// Token handles POST /auth/token, the OAuth2-style form login.
//
// @Summary      Obtain an access token (form)
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200  {object}  tokenResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}
	return h.issueToken(c, username, password)
}

// TokenJSON handles POST /auth/token-json, the JSON body login.
//
// @Summary      Obtain an access token (JSON)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200  {object}  tokenResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/token-json [post]
func (h *AuthHandler) TokenJSON(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.issueToken(c, req.Username, req.Password)
}

func (h *AuthHandler) issueToken(c echo.Context, username, password string) error {
	identity, token, err := h.login(c, username, password)
	if err != nil {
		return authError(c, err)
	}

	h.external.NotifyToken(c.Request().Context(), domain.TokenNotification{
		Username: identity.Username,
		Role:     identity.Role,
		Token:    token,
	})

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Login handles POST /auth/login and returns a detailed envelope with user info.
//
// @Summary      Login with a detailed response
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200  {object}  loginDetailResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  loginDetailResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, token, err := h.login(c, req.Username, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, loginDetailResponse{
			Success: false,
			Message: "Authentication failed. Invalid credentials.",
		})
	}
	if err != nil {
		return authError(c, err)
	}

	h.external.NotifyToken(c.Request().Context(), domain.TokenNotification{
		Username: identity.Username,
		Role:     identity.Role,
		Token:    token,
	})

	return c.JSON(http.StatusOK, loginDetailResponse{
		Success: true,
		Message: "Authentication successful",
		Data:    &tokenResponse{AccessToken: token, TokenType: "bearer"},
		User:    identity,
	})
}

// login runs the credential check and mints a token, recording the outcome.
func (h *AuthHandler) login(c echo.Context, username, password string) (*domain.Identity, string, error) {
	identity, err := h.auth.Authenticate(c.Request().Context(), username, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return nil, "", err
	}

	token, err := h.codec.Mint(identity)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, "", err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return identity, token, nil
}

// authError renders credential failures. Absent user, wrong password and
// inactive account all produce the same 401; a store integrity violation is a
// server fault and must not masquerade as a credentials problem.
func authError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "incorrect username or password"})
	case errors.Is(err, domain.ErrIntegrityViolation):
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "security violation detected"})
	default:
		return err
	}
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrIntegrityViolation):
		return "integrity_violation"
	default:
		return "error"
	}
}
