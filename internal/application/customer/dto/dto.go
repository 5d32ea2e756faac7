package dto

import (
	"time"

	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
	"github.com/orris-inc/subtrack/internal/shared/mapper"
)

type CustomerDTO struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Email     string               `json:"email"`
	Phone     string               `json:"phone"`
	Products  []*ProductSummaryDTO `json:"products,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// ProductSummaryDTO is a product as seen from the customer side of a link.
type ProductSummaryDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	BillingType string  `json:"type"`
}

type LinkDTO struct {
	Customer  *CustomerDTO       `json:"customer"`
	Product   *ProductSummaryDTO `json:"product"`
	MappingID string             `json:"mappingId,omitempty"`
}

var CustomerMapper = mapper.New(
	func(c *customer.Customer) *CustomerDTO {
		if c == nil {
			return nil
		}
		return &CustomerDTO{
			ID:        c.SID(),
			Name:      c.Name(),
			Email:     c.Email(),
			Phone:     c.Phone(),
			CreatedAt: c.CreatedAt(),
			UpdatedAt: c.UpdatedAt(),
		}
	},
)

func ToProductSummary(p *product.Product) *ProductSummaryDTO {
	if p == nil {
		return nil
	}
	terms := p.Terms()
	return &ProductSummaryDTO{
		ID:          p.SID(),
		Name:        p.Name(),
		Amount:      terms.Amount,
		BillingType: terms.BillingType.String(),
	}
}
