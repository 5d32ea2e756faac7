package dto

import (
	"time"

	assignmentdto "github.com/orris-inc/subtrack/internal/application/assignment/dto"
)

// ReminderDTO is one mapping whose expiry falls inside the requested window.
type ReminderDTO struct {
	Mapping   string                        `json:"mapping"`
	Customer  *assignmentdto.CustomerRefDTO `json:"customer"`
	Product   *assignmentdto.ProductRefDTO  `json:"product"`
	Expiry    string                        `json:"expiry"`
	DaysLeft  int                           `json:"daysLeft"`
	Bucket    string                        `json:"bucket"`
	Remaining string                        `json:"remaining"`
	Remarks   string                        `json:"remarks"`
}

type WindowDTO struct {
	Days      int            `json:"days"`
	Count     int            `json:"count"`
	Reminders []*ReminderDTO `json:"reminders"`
}

// AdminProductDTO is a product with its own purchase-based expiry.
type AdminProductDTO struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Amount           float64 `json:"amount"`
	BillingType      string  `json:"type"`
	Source           string  `json:"source"`
	Count            int     `json:"count"`
	Period           string  `json:"period"`
	DatePurchased    *string `json:"datePurchased"`
	ReminderLeadDays int     `json:"reminderLeadDays"`
	Expiry           *string `json:"expiry"`
	DaysUntilExpiry  *int    `json:"daysUntilExpiry"`
	Bucket           string  `json:"bucket"`
	Due              bool    `json:"due"`
}

type SendResultDTO struct {
	Success bool   `json:"success"`
	Mapping string `json:"mapping"`
	To      string `json:"to"`
	Expiry  string `json:"expiry"`
}

// Sweep item results.
const (
	ResultDue     = "due"
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// SweepItem is the outcome for one due mapping.
type SweepItem struct {
	Mapping   string `json:"mapping" yaml:"mapping"`
	Customer  string `json:"customer" yaml:"customer"`
	Email     string `json:"email" yaml:"email"`
	Product   string `json:"product" yaml:"product"`
	Expiry    string `json:"expiry" yaml:"expiry"`
	Threshold string `json:"threshold" yaml:"threshold"`
	Result    string `json:"result" yaml:"result"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// SweepReport summarizes one reminder sweep.
type SweepReport struct {
	RanAt   time.Time   `json:"ranAt" yaml:"ran_at"`
	DryRun  bool        `json:"dryRun" yaml:"dry_run"`
	Checked int         `json:"checked" yaml:"checked"`
	Due     int         `json:"due" yaml:"due"`
	Sent    int         `json:"sent" yaml:"sent"`
	Failed  int         `json:"failed" yaml:"failed"`
	Skipped int         `json:"skipped" yaml:"skipped"`
	Items   []SweepItem `json:"items" yaml:"items"`
}
