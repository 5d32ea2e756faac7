package dto

import (
	"time"

	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/mapper"
)

type ProductDTO struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	Description      string                `json:"description,omitempty"`
	Amount           float64               `json:"amount"`
	BillingType      string                `json:"type"`
	Source           string                `json:"source"`
	Count            int                   `json:"count"`
	Period           string                `json:"period"`
	DatePurchased    *string               `json:"datePurchased"`
	ReminderLeadDays int                   `json:"reminderLeadDays"`
	Customers        []*CustomerSummaryDTO `json:"customers,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

type CustomerSummaryDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

var ProductMapper = mapper.New(
	func(p *product.Product) *ProductDTO {
		if p == nil {
			return nil
		}
		terms := p.Terms()
		return &ProductDTO{
			ID:               p.SID(),
			Name:             p.Name(),
			Description:      p.Description(),
			Amount:           terms.Amount,
			BillingType:      terms.BillingType.String(),
			Source:           terms.Source.String(),
			Count:            terms.Count,
			Period:           terms.Period.String(),
			DatePurchased:    FormatDatePtr(p.DatePurchased()),
			ReminderLeadDays: p.ReminderLeadDays(),
			CreatedAt:        p.CreatedAt(),
			UpdatedAt:        p.UpdatedAt(),
		}
	},
)

func ToCustomerSummary(c *customer.Customer) *CustomerSummaryDTO {
	if c == nil {
		return nil
	}
	return &CustomerSummaryDTO{ID: c.SID(), Name: c.Name(), Email: c.Email()}
}

// FormatDatePtr renders an optional calendar date as YYYY-MM-DD.
func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := biztime.FormatDate(*t)
	return &s
}
