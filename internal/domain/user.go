package domain

import "time"

// Role distinguishes administrators from standard users.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Status represents lifecycle states for an account.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User is the domain model for an account. PasswordHash never crosses the
// API boundary; handlers project users through dto.UserView.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Role         Role
	Status       Status
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
