package dto

import (
	"time"

	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
	"github.com/orris-inc/subtrack/internal/domain/renewal"
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
)

// MappingDTO is an assignment with its ledger and resolved expiry.
type MappingDTO struct {
	ID               string            `json:"id"`
	Customer         *CustomerRefDTO   `json:"customer"`
	Product          *ProductRefDTO    `json:"product"`
	Remarks          string            `json:"remarks"`
	DateAssigned     *string           `json:"dateAssigned"`
	Overrides        OverridesDTO      `json:"overrides"`
	Terms            TermsDTO          `json:"terms"`
	Subscriptions    []SubscriptionDTO `json:"subscriptions"`
	Expiry           *string           `json:"expiry"`
	Bucket           string            `json:"bucket"`
	Remaining        string            `json:"remaining"`
	LastReminderSent *time.Time        `json:"lastReminderSent,omitempty"`
	Version          int               `json:"version"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

type CustomerRefDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type ProductRefDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	BillingType   string  `json:"type"`
	Source        string  `json:"source"`
	Count         int     `json:"count"`
	Period        string  `json:"period"`
	DatePurchased *string `json:"datePurchased"`
}

// OverridesDTO lists only the fields the mapping overrides.
type OverridesDTO struct {
	Amount      *float64 `json:"amount,omitempty"`
	BillingType *string  `json:"type,omitempty"`
	Source      *string  `json:"source,omitempty"`
	Count       *int     `json:"count,omitempty"`
	Period      *string  `json:"period,omitempty"`
}

// TermsDTO are the effective terms after overrides.
type TermsDTO struct {
	Amount      float64 `json:"amount"`
	BillingType string  `json:"type"`
	Source      string  `json:"source"`
	Count       int     `json:"count"`
	Period      string  `json:"period"`
}

type SubscriptionDTO struct {
	Ordinal    int       `json:"ordinal"`
	Amount     float64   `json:"amount"`
	Units      int       `json:"units"`
	UnitType   string    `json:"unitType"`
	DatePaid   string    `json:"datePaid"`
	ExpiresAt  string    `json:"expiresAt"`
	RecordedAt time.Time `json:"recordedAt"`
}

type DeletedDTO struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// ToMappingDTO resolves and classifies a against today. c and p may be nil
// when the referenced rows are gone.
func ToMappingDTO(a *assignment.Assignment, c *customer.Customer, p *product.Product, today time.Time) *MappingDTO {
	out := &MappingDTO{
		ID:               a.SID(),
		Customer:         ToCustomerRef(c),
		Product:          ToProductRef(p),
		Remarks:          a.Remarks(),
		DateAssigned:     formatDatePtr(a.DateAssigned()),
		Overrides:        toOverrides(a.Overrides()),
		Subscriptions:    toSubscriptions(a.Entries()),
		LastReminderSent: a.LastReminderSent(),
		Version:          a.Version(),
		CreatedAt:        a.CreatedAt(),
		UpdatedAt:        a.UpdatedAt(),
	}

	var expiry *time.Time
	if p == nil {
		out.Terms = toTerms(a.Overrides().Apply(vo.DefaultTerms(0)))
		expiry = a.LatestExpiry()
	} else {
		out.Terms = toTerms(a.EffectiveTerms(p.Terms()))
		expiry = renewal.Resolve(a, p)
	}
	out.Expiry = formatDatePtr(expiry)

	cls := renewal.Classify(today, expiry)
	out.Bucket = cls.Bucket.String()
	out.Remaining = cls.Remaining
	return out
}

func ToCustomerRef(c *customer.Customer) *CustomerRefDTO {
	if c == nil {
		return nil
	}
	return &CustomerRefDTO{ID: c.SID(), Name: c.Name(), Email: c.Email(), Phone: c.Phone()}
}

func ToProductRef(p *product.Product) *ProductRefDTO {
	if p == nil {
		return nil
	}
	t := p.Terms()
	return &ProductRefDTO{
		ID:            p.SID(),
		Name:          p.Name(),
		Amount:        t.Amount,
		BillingType:   t.BillingType.String(),
		Source:        t.Source.String(),
		Count:         t.Count,
		Period:        t.Period.String(),
		DatePurchased: formatDatePtr(p.DatePurchased()),
	}
}

func toTerms(t vo.Terms) TermsDTO {
	return TermsDTO{
		Amount:      t.Amount,
		BillingType: t.BillingType.String(),
		Source:      t.Source.String(),
		Count:       t.Count,
		Period:      t.Period.String(),
	}
}

func toOverrides(o vo.TermsOverride) OverridesDTO {
	var out OverridesDTO
	out.Amount = o.Amount
	out.Count = o.Count
	if o.BillingType != nil {
		s := o.BillingType.String()
		out.BillingType = &s
	}
	if o.Source != nil {
		s := o.Source.String()
		out.Source = &s
	}
	if o.Period != nil {
		s := o.Period.String()
		out.Period = &s
	}
	return out
}

func toSubscriptions(entries []assignment.LedgerEntry) []SubscriptionDTO {
	out := make([]SubscriptionDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, SubscriptionDTO{
			Ordinal:    e.Ordinal(),
			Amount:     e.Amount(),
			Units:      e.Duration().Units(),
			UnitType:   e.Duration().Unit().String(),
			DatePaid:   biztime.FormatDate(e.Start()),
			ExpiresAt:  biztime.FormatDate(e.End()),
			RecordedAt: e.RecordedAt(),
		})
	}
	return out
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := biztime.FormatDate(*t)
	return &s
}
