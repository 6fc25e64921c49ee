package domain

import "time"

// UserRole identifies the access level of a user
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
)

// User represents a registered account
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone,omitempty"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsValidRole reports whether s names a known user role
func IsValidRole(s string) bool {
	switch UserRole(s) {
	case RoleUser, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// HasAdminAccess reports whether the role may call admin endpoints. Staff
// accounts share admin access.
func (r UserRole) HasAdminAccess() bool {
	return r == RoleAdmin || r == RoleStaff
}

// HasAdminAccess reports whether the user may call admin endpoints
func (u *User) HasAdminAccess() bool {
	return u.Role.HasAdminAccess()
}
