package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/teste-tivit/secure-api/internal/core/domain"
	"github.com/teste-tivit/secure-api/internal/core/ports"
)

// Fixed token constants. Every minted token names this service as issuer and
// the companion client as audience; verification rejects anything else.
const (
	TokenIssuer   = "teste-tivit-api"
	TokenAudience = "teste-tivit-client"
)

const defaultTokenTTL = 30 * time.Minute

// Claims is the fixed-shape claim set carried by every token.
//
// RoleHash binds the role claim to its integrity tag. The signature already
// covers every field, so the tag is a redundant second layer: a forged or
// edited token is caught by the tag check even in readings of the token that
// never reach signature validation.
type Claims struct {
	Role     string `json:"role"`
	RoleHash string `json:"role_hash"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies signed bearer tokens.
type TokenService struct {
	users  ports.UserRepository
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a codec for the given HMAC algorithm name (HS256,
// HS384 or HS512). A non-positive ttl falls back to the default lifetime.
func NewTokenService(users ports.UserRepository, secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: empty signing secret")
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("token service: unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("token service: unsupported signing algorithm %q", algorithm)
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{
		users:  users,
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock replaces the codec's time source. Intended for tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Mint issues a token for identity with the configured lifetime.
func (s *TokenService) Mint(identity *domain.Identity) (string, error) {
	return s.MintWithTTL(identity, s.ttl)
}

// MintWithTTL issues a token valid from now until now+ttl. The jti claim is
// 256 bits of fresh randomness, kept as a hook for revocation-list lookups.
func (s *TokenService) MintWithTTL(identity *domain.Identity, ttl time.Duration) (string, error) {
	tag, ok := domain.ExpectedRoleTag(identity.Role)
	if !ok {
		return "", fmt.Errorf("token service: no integrity tag for role %q", identity.Role)
	}

	jti, err := newTokenID()
	if err != nil {
		return "", err
	}

	now := s.now()
	claims := &Claims{
		Role:     identity.Role,
		RoleHash: tag,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jti,
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
		},
	}

	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// newTokenID returns 32 random bytes as an unpadded base64url string.
func newTokenID() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("token service: generate jti: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Verify checks signature, time window, issuer/audience, claim shape and
// role integrity, then re-resolves the subject against the user repository
// so deactivating an account invalidates its outstanding tokens.
func (s *TokenService) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{},
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, mapParseError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrMalformedToken
	}
	if claims.Subject == "" {
		return nil, domain.ErrMalformedToken
	}
	if claims.Role == "" || claims.RoleHash == "" {
		return nil, domain.ErrMalformedToken
	}
	if !domain.ValidateRoleTag(claims.Role, claims.RoleHash) {
		return nil, domain.ErrRoleTampering
	}

	user, err := s.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserInactive
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrUserInactive
	}

	return &domain.Identity{
		Username: user.Username,
		Role:     user.Role,
		Active:   user.Active,
	}, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidAudience), errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return domain.ErrTokenAudience
	default:
		return domain.ErrMalformedToken
	}
}
