package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/lumishop/shopadmin/internal/shared/constants"
)

// UserModel represents the database persistence model for users
type UserModel struct {
	ID           uint    `gorm:"primarykey"`
	Email        string  `gorm:"uniqueIndex;not null;size:255"`
	Name         string  `gorm:"not null;size:100"`
	Role         string  `gorm:"not null;default:customer;size:20"`
	Status       string  `gorm:"not null;default:active;size:20"`
	PasswordHash *string `gorm:"size:255"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUsers
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.Status == "" {
		u.Status = constants.UserStatusActive
	}
	return nil
}
