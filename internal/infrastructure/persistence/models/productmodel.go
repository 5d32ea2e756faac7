package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/orris-inc/subtrack/internal/shared/constants"
)

// ProductModel stores a catalogue item together with its default terms.
type ProductModel struct {
	ID               uint            `gorm:"primarykey"`
	SID              string          `gorm:"column:sid;uniqueIndex;not null;size:32"`
	Name             string          `gorm:"not null;size:200"`
	Description      string          `gorm:"type:text"`
	Amount           float64         `gorm:"not null;type:decimal(12,2)"`
	BillingType      string          `gorm:"not null;size:20;index"`
	Source           string          `gorm:"not null;size:20;index"`
	PeriodCount      int             `gorm:"not null;default:1"`
	PeriodUnit       string          `gorm:"not null;size:10"`
	DatePurchased    *datatypes.Date `gorm:"type:date"`
	ReminderLeadDays int             `gorm:"not null;default:15"`
	Version          int             `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (ProductModel) TableName() string {
	return constants.TableProducts
}
