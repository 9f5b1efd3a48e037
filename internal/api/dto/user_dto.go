package dto

import (
	"time"

	"github.com/spec-kit/account-service/internal/domain"
)

// SignupRequest payload for new accounts.
type SignupRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,containsdigit"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest payload for profile edits. Empty fields keep their
// previous value; an explicit empty string counts as "not provided".
type UpdateProfileRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// ChangePasswordRequest payload for password changes.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserView is the public projection of a user. The password hash is never
// part of it.
type UserView struct {
	ID        string     `json:"id"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// NewUserView projects the client-safe fields of a user.
func NewUserView(u *domain.User) UserView {
	return UserView{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     string(u.Role),
		Status:   string(u.Status),
	}
}

// NewUserDetailView includes lastLogin and createdAt for listing and
// self-inspection endpoints.
func NewUserDetailView(u *domain.User) UserView {
	view := NewUserView(u)
	view.LastLogin = u.LastLogin
	createdAt := u.CreatedAt
	view.CreatedAt = &createdAt
	return view
}

// ListUsersResponse is the admin listing payload.
type ListUsersResponse struct {
	Users       []UserView `json:"users"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
	TotalUsers  int        `json:"totalUsers"`
}
