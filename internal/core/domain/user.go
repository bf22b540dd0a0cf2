package domain

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a credential record as stored in the user repository. The password
// hash and role tag never leave the persistence boundary.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	RoleTag      string `json:"-"`
	Active       bool   `json:"is_active"`
}

// Identity is the authenticated view of a user, produced by the authenticator
// or by token verification. It carries no secrets and is safe to serialize.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Active   bool   `json:"is_active"`
}

// CanAccessUserResources reports whether the identity may reach user-level routes.
func (i Identity) CanAccessUserResources() bool {
	return i.Active && (i.Role == RoleUser || i.Role == RoleAdmin)
}

// CanAccessAdminResources reports whether the identity may reach admin routes.
func (i Identity) CanAccessAdminResources() bool {
	return i.Active && i.Role == RoleAdmin
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

func (i Identity) IsUser() bool { return i.Role == RoleUser }
