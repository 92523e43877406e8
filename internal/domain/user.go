package domain

import "time"

// Role determines a user's access level. It is fixed at account creation;
// no operation rewrites it.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleStaff   Role = "STAFF"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for all account types.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Role          Role
	Phone         *string
	Department    *string
	StudentNumber *string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
