package domain

import "github.com/google/uuid"

// Role is the coarse capability set of an acting principal.
type Role string

const (
	// RoleOwner is a pet owner booking boarding for their own pets.
	RoleOwner Role = "owner"
	// RoleEmployee is facility staff handling stays.
	RoleEmployee Role = "employee"
	// RoleAdmin has employee capabilities plus admin endpoints.
	RoleAdmin Role = "admin"
)

// IsValid returns true if the role is recognized.
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleEmployee, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role carries employee capabilities.
func (r Role) IsStaff() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// Actor is the principal performing an operation. It is passed explicitly
// into every application call rather than threaded through constructors.
type Actor struct {
	UserID   uuid.UUID
	Role     Role
	Language string
}
