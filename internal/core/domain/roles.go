package domain

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// roleTags maps every valid role to its expected integrity tag: the hex
// SHA-256 of the role name. The tag travels alongside the role claim inside
// signed tokens and stored credential records; any record or token whose tag
// does not match the expected value for its declared role is treated as
// tampered with. The tag is not secret (the signature is what makes it
// unforgeable); it exists as a second, independent binding of the role field.
var roleTags = map[string]string{
	RoleUser:  roleTag(RoleUser),
	RoleAdmin: roleTag(RoleAdmin),
}

func roleTag(role string) string {
	sum := sha256.Sum256([]byte(role))
	return hex.EncodeToString(sum[:])
}

// ExpectedRoleTag returns the integrity tag for a role, or false for a role
// that is not part of the fixed role set.
func ExpectedRoleTag(role string) (string, bool) {
	tag, ok := roleTags[role]
	return tag, ok
}

// ValidateRoleTag reports whether tag is the expected integrity tag for role.
// The comparison is constant-time so a caller probing tags learns nothing
// from response latency.
func ValidateRoleTag(role, tag string) bool {
	expected, ok := roleTags[role]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(tag)) == 1
}
