// Package apitoken models bearer tokens used by integrations (ERP sync, shipping partners)
// to call the /api/v1 endpoints. Only the SHA-256 hash of a token is stored.
package apitoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/lumishop/shopadmin/internal/shared/id"
)

var (
	ErrInvalidTokenHash = errors.New("token hash cannot be empty")
	ErrInvalidPrefix    = errors.New("token prefix cannot be empty")
	ErrAlreadyRevoked   = errors.New("token is already revoked")
)

// APIToken is one issued bearer token.
type APIToken struct {
	id          uint
	sid         string // Stripe-style ID: tok_xxx
	userID      uint
	name        string
	tokenHash   string
	prefix      string
	permissions Permissions
	rateLimit   int
	expiresAt   *time.Time
	lastUsedAt  *time.Time
	isActive    bool
	createdAt   time.Time
	revokedAt   *time.Time
}

func NewAPIToken(
	userID uint,
	name string,
	tokenHash string,
	prefix string,
	permissions Permissions,
	rateLimit int,
	expiresAt *time.Time,
) (*APIToken, error) {
	if userID == 0 {
		return nil, errors.New("user ID cannot be zero")
	}

	if name == "" {
		return nil, errors.New("token name cannot be empty")
	}

	if tokenHash == "" {
		return nil, ErrInvalidTokenHash
	}

	if prefix == "" {
		return nil, ErrInvalidPrefix
	}

	if len(permissions) == 0 {
		return nil, errors.New("token needs at least one permission")
	}

	if rateLimit <= 0 {
		return nil, errors.New("rate limit must be positive")
	}

	if expiresAt != nil && expiresAt.Before(time.Now()) {
		return nil, errors.New("expiration time cannot be in the past")
	}

	sid, err := id.NewAPITokenSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token ID: %w", err)
	}

	return &APIToken{
		sid:         sid,
		userID:      userID,
		name:        name,
		tokenHash:   tokenHash,
		prefix:      prefix,
		permissions: permissions,
		rateLimit:   rateLimit,
		expiresAt:   expiresAt,
		isActive:    true,
		createdAt:   time.Now().UTC(),
	}, nil
}

func ReconstructAPIToken(
	id uint,
	sid string,
	userID uint,
	name string,
	tokenHash string,
	prefix string,
	permissions Permissions,
	rateLimit int,
	expiresAt *time.Time,
	lastUsedAt *time.Time,
	isActive bool,
	createdAt time.Time,
	revokedAt *time.Time,
) (*APIToken, error) {
	if id == 0 {
		return nil, errors.New("token ID cannot be zero")
	}

	if userID == 0 {
		return nil, errors.New("user ID cannot be zero")
	}

	if tokenHash == "" {
		return nil, ErrInvalidTokenHash
	}

	return &APIToken{
		id:          id,
		sid:         sid,
		userID:      userID,
		name:        name,
		tokenHash:   tokenHash,
		prefix:      prefix,
		permissions: permissions,
		rateLimit:   rateLimit,
		expiresAt:   expiresAt,
		lastUsedAt:  lastUsedAt,
		isActive:    isActive,
		createdAt:   createdAt,
		revokedAt:   revokedAt,
	}, nil
}

func (t *APIToken) IsExpiredAt(now time.Time) bool {
	if t.expiresAt == nil {
		return false
	}
	return !now.Before(*t.expiresAt)
}

func (t *APIToken) IsRevoked() bool {
	return t.revokedAt != nil
}

// IsUsableAt reports whether the token may authenticate a request at now:
// active, not revoked and not expired.
func (t *APIToken) IsUsableAt(now time.Time) bool {
	return t.isActive && !t.IsRevoked() && !t.IsExpiredAt(now)
}

func (t *APIToken) Revoke() error {
	if t.revokedAt != nil {
		return ErrAlreadyRevoked
	}

	now := time.Now().UTC()
	t.revokedAt = &now
	t.isActive = false

	return nil
}

func (t *APIToken) Allows(required Permission) bool {
	return t.permissions.Allows(required)
}

func (t *APIToken) ID() uint {
	return t.id
}

// SID returns the Stripe-style ID
func (t *APIToken) SID() string {
	return t.sid
}

// SetSID sets the Stripe-style ID (only for persistence layer use)
func (t *APIToken) SetSID(sid string) {
	t.sid = sid
}

func (t *APIToken) UserID() uint             { return t.userID }
func (t *APIToken) Name() string             { return t.name }
func (t *APIToken) TokenHash() string        { return t.tokenHash }
func (t *APIToken) Prefix() string           { return t.prefix }
func (t *APIToken) Permissions() Permissions { return t.permissions }
func (t *APIToken) RateLimit() int           { return t.rateLimit }
func (t *APIToken) ExpiresAt() *time.Time    { return t.expiresAt }
func (t *APIToken) LastUsedAt() *time.Time   { return t.lastUsedAt }
func (t *APIToken) IsActive() bool           { return t.isActive }
func (t *APIToken) CreatedAt() time.Time     { return t.createdAt }
func (t *APIToken) RevokedAt() *time.Time    { return t.revokedAt }

func (t *APIToken) SetID(id uint) error {
	if id == 0 {
		return errors.New("token ID cannot be zero")
	}
	t.id = id
	return nil
}
