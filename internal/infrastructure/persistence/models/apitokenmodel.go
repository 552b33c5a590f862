package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/lumishop/shopadmin/internal/shared/constants"
)

// APITokenModel stores hashed bearer tokens. The plaintext is never persisted.
type APITokenModel struct {
	ID          uint           `gorm:"primarykey"`
	SID         string         `gorm:"column:sid;uniqueIndex;not null;size:32"`
	UserID      uint           `gorm:"not null;index:idx_api_tokens_user"`
	Name        string         `gorm:"not null;size:100"`
	TokenHash   string         `gorm:"uniqueIndex;not null;size:64"` // SHA256 hex
	Prefix      string         `gorm:"not null;size:20"`
	Permissions datatypes.JSON `gorm:"not null"`
	RateLimit   int            `gorm:"not null;default:60"`
	ExpiresAt   *time.Time     `gorm:"index:idx_api_tokens_expires_at"`
	LastUsedAt  *time.Time
	IsActive    bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	RevokedAt   *time.Time
}

func (APITokenModel) TableName() string {
	return constants.TableAPITokens
}
