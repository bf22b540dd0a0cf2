package domain

import "errors"

// Credential failures. Absent user, wrong password and inactive account all
// collapse into ErrInvalidCredentials so callers cannot distinguish them.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrIntegrityViolation means a stored credential record carries a role tag
// that does not match its role. The store itself has been tampered with; this
// must surface as a server fault, never as a credentials problem.
var ErrIntegrityViolation = errors.New("credential store integrity violation")

// Token verification failures.
var (
	ErrMalformedToken = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired or not yet valid")
	ErrTokenAudience  = errors.New("token audience or issuer mismatch")
	ErrRoleTampering  = errors.New("role tampering detected")
	ErrUserInactive   = errors.New("user not found or inactive")
)

// ErrUserNotFound is returned by user repositories for unknown usernames.
var ErrUserNotFound = errors.New("user not found")
