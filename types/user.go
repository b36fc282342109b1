package types

import "time"

// Role names recognised by the authorization layer.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// User represents an account in the CMS.
// It contains identity, role, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID string `json:"id"`

	// Username is the display name chosen at registration.
	Username string `json:"username"`

	// Email is the user's email address. It is unique across all users
	// and is the login identifier.
	Email string `json:"email"`

	// Role indicates the user's authorization level within the system
	// ("admin", "editor" or "viewer").
	Role string `json:"role"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known role names.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	default:
		return false
	}
}
