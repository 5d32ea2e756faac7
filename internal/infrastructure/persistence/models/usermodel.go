package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/subtrack/internal/shared/constants"
)

// UserModel is the persistence form of an operator account.
type UserModel struct {
	ID           uint   `gorm:"primarykey"`
	SID          string `gorm:"column:sid;uniqueIndex;not null;size:32"`
	Email        string `gorm:"uniqueIndex;not null;size:255"`
	Name         string `gorm:"not null;size:100"`
	Phone        string `gorm:"size:20"`
	PasswordHash string `gorm:"not null;size:255"`
	Role         string `gorm:"not null;default:user;size:20"`
	Version      int    `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = constants.RoleUser
	}
	if u.Version == 0 {
		u.Version = 1
	}
	return nil
}
