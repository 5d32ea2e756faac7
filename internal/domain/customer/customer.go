package customer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/id"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9\s\-]{10,20}$`)
)

// Customer is someone products are sold to.
type Customer struct {
	id        uint
	sid       string
	name      string
	email     string
	phone     string
	version   int
	createdAt time.Time
	updatedAt time.Time
}

func NewCustomer(name, email, phone string) (*Customer, error) {
	name, email, phone, err := normalize(name, email, phone)
	if err != nil {
		return nil, err
	}

	sid, err := id.NewCustomerSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate customer SID: %w", err)
	}

	now := biztime.NowUTC()
	return &Customer{
		sid:       sid,
		name:      name,
		email:     email,
		phone:     phone,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructCustomer rebuilds a customer from persistence without re-validating contact details.
func ReconstructCustomer(id uint, sid, name, email, phone string, version int, createdAt, updatedAt time.Time) (*Customer, error) {
	if id == 0 {
		return nil, fmt.Errorf("customer ID cannot be zero")
	}
	if sid == "" {
		return nil, fmt.Errorf("customer SID is required")
	}
	return &Customer{
		id:        id,
		sid:       sid,
		name:      name,
		email:     email,
		phone:     phone,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (c *Customer) ID() uint { return c.id }
func (c *Customer) SID() string { return c.sid }
func (c *Customer) Name() string { return c.name }
func (c *Customer) Email() string { return c.email }
func (c *Customer) Phone() string { return c.phone }
func (c *Customer) Version() int { return c.version }
func (c *Customer) CreatedAt() time.Time { return c.createdAt }
func (c *Customer) UpdatedAt() time.Time { return c.updatedAt }

// SetID sets the ID assigned by persistence.
func (c *Customer) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("customer ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("customer ID cannot be zero")
	}
	c.id = id
	return nil
}

// UpdateContact replaces the non-empty fields among name, email and phone.
func (c *Customer) UpdateContact(name, email, phone *string) error {
	newName, newEmail, newPhone := c.name, c.email, c.phone
	if name != nil {
		newName = *name
	}
	if email != nil {
		newEmail = *email
	}
	if phone != nil {
		newPhone = *phone
	}

	n, e, p, err := normalize(newName, newEmail, newPhone)
	if err != nil {
		return err
	}
	if n == c.name && e == c.email && p == c.phone {
		return nil
	}

	c.name, c.email, c.phone = n, e, p
	c.version++
	c.updatedAt = biztime.NowUTC()
	return nil
}

func normalize(name, email, phone string) (string, string, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	if name == "" {
		return "", "", "", ErrNameRequired
	}
	if !emailPattern.MatchString(email) {
		return "", "", "", ErrInvalidEmail
	}
	if !phonePattern.MatchString(phone) || digitCount(phone) > 10 {
		return "", "", "", ErrInvalidPhone
	}
	return name, email, phone, nil
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
