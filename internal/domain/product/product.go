package product

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/calendar"
	"github.com/orris-inc/subtrack/internal/shared/id"
)

// DefaultReminderLeadDays is how long before expiry a reminder becomes due.
const DefaultReminderLeadDays = 15

// Product is the commercial template customers are assigned to.
type Product struct {
	id               uint
	sid              string
	name             string
	description      string
	terms            vo.Terms
	datePurchased    *time.Time
	reminderLeadDays int
	version          int
	createdAt        time.Time
	updatedAt        time.Time
}

func NewProduct(name, description string, terms vo.Terms, datePurchased *time.Time, reminderLeadDays int, today time.Time) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	if reminderLeadDays < 0 {
		return nil, ErrInvalidReminderLead
	}
	purchased, err := checkPurchaseDate(datePurchased, today)
	if err != nil {
		return nil, err
	}

	sid, err := id.NewProductSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate product SID: %w", err)
	}

	now := biztime.NowUTC()
	return &Product{
		sid:              sid,
		name:             name,
		description:      strings.TrimSpace(description),
		terms:            terms,
		datePurchased:    purchased,
		reminderLeadDays: reminderLeadDays,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func ReconstructProduct(
	id uint,
	sid, name, description string,
	terms vo.Terms,
	datePurchased *time.Time,
	reminderLeadDays, version int,
	createdAt, updatedAt time.Time,
) (*Product, error) {
	if id == 0 {
		return nil, fmt.Errorf("product ID cannot be zero")
	}
	if err := terms.Validate(); err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	return &Product{
		id:               id,
		sid:              sid,
		name:             name,
		description:      description,
		terms:            terms,
		datePurchased:    datePurchased,
		reminderLeadDays: reminderLeadDays,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

func (p *Product) ID() uint { return p.id }
func (p *Product) SID() string { return p.sid }
func (p *Product) Name() string { return p.name }
func (p *Product) Description() string { return p.description }
func (p *Product) Terms() vo.Terms { return p.terms }
func (p *Product) DatePurchased() *time.Time { return p.datePurchased }
func (p *Product) ReminderLeadDays() int { return p.reminderLeadDays }
func (p *Product) Version() int { return p.version }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }

// Clone returns an independent copy, used by read caches.
func (p *Product) Clone() *Product {
	cp := *p
	if p.datePurchased != nil {
		d := *p.datePurchased
		cp.datePurchased = &d
	}
	return &cp
}

func (p *Product) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("product ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("product ID cannot be zero")
	}
	p.id = id
	return nil
}

// Update is a partial update; nil arguments keep the current value.
type Update struct {
	Name             *string
	Description      *string
	Terms            *vo.Terms
	DatePurchased    *time.Time
	ClearPurchased   bool
	ReminderLeadDays *int
}

func (p *Product) Apply(u Update, today time.Time) error {
	next := *p

	if u.Name != nil {
		n := strings.TrimSpace(*u.Name)
		if n == "" {
			return ErrNameRequired
		}
		next.name = n
	}
	if u.Description != nil {
		next.description = strings.TrimSpace(*u.Description)
	}
	if u.Terms != nil {
		if err := u.Terms.Validate(); err != nil {
			return err
		}
		next.terms = *u.Terms
	}
	if u.ClearPurchased {
		next.datePurchased = nil
	} else if u.DatePurchased != nil {
		d, err := checkPurchaseDate(u.DatePurchased, today)
		if err != nil {
			return err
		}
		next.datePurchased = d
	}
	if u.ReminderLeadDays != nil {
		if *u.ReminderLeadDays < 0 {
			return ErrInvalidReminderLead
		}
		next.reminderLeadDays = *u.ReminderLeadDays
	}

	next.version = p.version + 1
	next.updatedAt = biztime.NowUTC()
	*p = next
	return nil
}

func checkPurchaseDate(d *time.Time, today time.Time) (*time.Time, error) {
	if d == nil {
		return nil, nil
	}
	day := calendar.TruncateToDay(*d)
	if calendar.Before(today, day) {
		return nil, ErrPurchaseDateInFuture
	}
	return &day, nil
}
