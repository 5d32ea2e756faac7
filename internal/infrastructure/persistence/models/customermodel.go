package models

import (
	"time"

	"github.com/orris-inc/subtrack/internal/shared/constants"
)

type CustomerModel struct {
	ID        uint   `gorm:"primarykey"`
	SID       string `gorm:"column:sid;uniqueIndex;not null;size:32"`
	Name      string `gorm:"not null;size:100"`
	Email     string `gorm:"uniqueIndex;not null;size:255"`
	Phone     string `gorm:"uniqueIndex;not null;size:20"`
	Version   int    `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CustomerModel) TableName() string {
	return constants.TableCustomers
}
