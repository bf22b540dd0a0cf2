package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestExpectedRoleTag_KnownRoles(t *testing.T) {
	for _, role := range []string{RoleUser, RoleAdmin} {
		tag, ok := ExpectedRoleTag(role)
		if !ok {
			t.Fatalf("no tag for role %q", role)
		}
		sum := sha256.Sum256([]byte(role))
		if want := hex.EncodeToString(sum[:]); tag != want {
			t.Fatalf("tag for %q = %s, want %s", role, tag, want)
		}
	}
}

func TestExpectedRoleTag_UnknownRole(t *testing.T) {
	if _, ok := ExpectedRoleTag("superadmin"); ok {
		t.Fatalf("expected no tag for unknown role")
	}
}

func TestValidateRoleTag(t *testing.T) {
	userTag, _ := ExpectedRoleTag(RoleUser)
	adminTag, _ := ExpectedRoleTag(RoleAdmin)

	if !ValidateRoleTag(RoleUser, userTag) {
		t.Fatalf("valid tag rejected")
	}
	if ValidateRoleTag(RoleUser, adminTag) {
		t.Fatalf("cross-role tag accepted")
	}
	if ValidateRoleTag(RoleUser, "") {
		t.Fatalf("empty tag accepted")
	}
	if ValidateRoleTag("ghost", userTag) {
		t.Fatalf("unknown role accepted")
	}
}

func TestIdentityPermissions(t *testing.T) {
	user := Identity{Username: "usuario", Role: RoleUser, Active: true}
	admin := Identity{Username: "admin", Role: RoleAdmin, Active: true}
	inactive := Identity{Username: "gone", Role: RoleAdmin, Active: false}

	if !user.CanAccessUserResources() || user.CanAccessAdminResources() {
		t.Fatalf("user permissions wrong: %+v", user)
	}
	if !admin.CanAccessUserResources() || !admin.CanAccessAdminResources() {
		t.Fatalf("admin permissions wrong: %+v", admin)
	}
	if inactive.CanAccessUserResources() || inactive.CanAccessAdminResources() {
		t.Fatalf("inactive identity should have no access")
	}
}
