package dto

import (
	"time"

	"github.com/lumishop/shopadmin/internal/domain/user"
)

type UserDTO struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	HasPassword bool       `json:"has_password"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ToUserDTO(u *user.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID(),
		Email:       u.Email(),
		Name:        u.Name(),
		Role:        u.Role().String(),
		Status:      string(u.Status()),
		HasPassword: u.PasswordHash() != nil && *u.PasswordHash() != "",
		LastLoginAt: u.LastLoginAt(),
		CreatedAt:   u.CreatedAt(),
	}
}

// SessionDTO is returned after a successful login. The token itself travels in a cookie.
type SessionDTO struct {
	User      *UserDTO  `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}
