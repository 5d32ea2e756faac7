package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/orris-inc/subtrack/internal/shared/constants"
)

// AssignmentModel links a customer to a product. Override columns are NULL
// when the product's terms apply.
type AssignmentModel struct {
	ID                  uint            `gorm:"primarykey"`
	SID                 string          `gorm:"column:sid;uniqueIndex;not null;size:32"`
	CustomerID          uint            `gorm:"not null;uniqueIndex:uk_assignments_pair,priority:1"`
	ProductID           uint            `gorm:"not null;uniqueIndex:uk_assignments_pair,priority:2;index"`
	Remarks             string          `gorm:"type:text"`
	DateAssigned        *datatypes.Date `gorm:"type:date"`
	OverrideAmount      *float64        `gorm:"type:decimal(12,2)"`
	OverrideBillingType *string         `gorm:"size:20"`
	OverrideSource      *string         `gorm:"size:20"`
	OverridePeriodCount *int
	OverridePeriodUnit  *string `gorm:"size:10"`
	LastReminderSentAt  *time.Time
	Version             int `gorm:"not null;default:1"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Entries []LedgerEntryModel `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE"`
}

func (AssignmentModel) TableName() string {
	return constants.TableAssignments
}

// LedgerEntryModel is one recorded payment period.
type LedgerEntryModel struct {
	ID            uint           `gorm:"primarykey"`
	AssignmentID  uint           `gorm:"not null;uniqueIndex:uk_ledger_entries_ordinal,priority:1"`
	Ordinal       int            `gorm:"not null;uniqueIndex:uk_ledger_entries_ordinal,priority:2"`
	Amount        float64        `gorm:"not null;type:decimal(12,2)"`
	DurationUnits int            `gorm:"not null"`
	DurationUnit  string         `gorm:"not null;size:10"`
	StartDate     datatypes.Date `gorm:"not null;type:date"`
	EndDate       datatypes.Date `gorm:"not null;type:date"`
	RecordedAt    time.Time      `gorm:"not null"`
}

func (LedgerEntryModel) TableName() string {
	return constants.TableLedgerEntries
}
