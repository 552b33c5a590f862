// Package user holds back-office and customer accounts. Accounts own API tokens and
// sign in to the admin panel with a password or Google.
package user

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lumishop/shopadmin/internal/shared/authorization"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusDisabled
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// NormalizeEmail lower-cases and trims an address and checks its shape.
func NormalizeEmail(value string) (string, error) {
	normalized := strings.TrimSpace(strings.ToLower(value))
	if normalized == "" {
		return "", fmt.Errorf("email cannot be empty")
	}
	if len(normalized) > 255 {
		return "", fmt.Errorf("email cannot exceed 255 characters")
	}
	if !emailRegex.MatchString(normalized) {
		return "", fmt.Errorf("invalid email format: %s", value)
	}
	return normalized, nil
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// User is the account aggregate.
type User struct {
	id           uint
	email        string
	name         string
	role         authorization.UserRole
	status       Status
	passwordHash *string
	lastLoginAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates an active account.
func NewUser(email, name string, role authorization.UserRole) (*User, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}

	now := time.Now().UTC()
	return &User{
		email:     normalized,
		name:      name,
		role:      role,
		status:    StatusActive,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructUser reconstructs a user from persistence
func ReconstructUser(
	id uint,
	email string,
	name string,
	role authorization.UserRole,
	status Status,
	passwordHash *string,
	lastLoginAt *time.Time,
	createdAt, updatedAt time.Time,
) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	return &User{
		id:           id,
		email:        email,
		name:         name,
		role:         role,
		status:       status,
		passwordHash: passwordHash,
		lastLoginAt:  lastLoginAt,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (u *User) ID() uint                     { return u.id }
func (u *User) Email() string                { return u.email }
func (u *User) Name() string                 { return u.name }
func (u *User) Role() authorization.UserRole { return u.role }
func (u *User) Status() Status               { return u.status }
func (u *User) PasswordHash() *string        { return u.passwordHash }
func (u *User) LastLoginAt() *time.Time      { return u.lastLoginAt }
func (u *User) CreatedAt() time.Time         { return u.createdAt }
func (u *User) UpdatedAt() time.Time         { return u.updatedAt }

// IsActive reports whether the account may authenticate by any method.
func (u *User) IsActive() bool {
	return u.status == StatusActive
}

// SetID sets the user ID (only for persistence layer use)
func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

func (u *User) SetPassword(password string, hasher PasswordHasher) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u.passwordHash = &hash
	u.updatedAt = time.Now().UTC()
	return nil
}

func (u *User) VerifyPassword(plainPassword string, hasher PasswordHasher) error {
	if u.passwordHash == nil || *u.passwordHash == "" {
		return fmt.Errorf("user has no password set")
	}
	if err := hasher.Verify(plainPassword, *u.passwordHash); err != nil {
		return fmt.Errorf("invalid password")
	}
	return nil
}

func (u *User) RecordLogin(at time.Time) {
	at = at.UTC()
	u.lastLoginAt = &at
	u.updatedAt = at
}

func (u *User) ChangeRole(role authorization.UserRole) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role: %s", role)
	}
	u.role = role
	u.updatedAt = time.Now().UTC()
	return nil
}

func (u *User) Disable() {
	u.status = StatusDisabled
	u.updatedAt = time.Now().UTC()
}

func (u *User) Enable() {
	u.status = StatusActive
	u.updatedAt = time.Now().UTC()
}
