package user

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/orris-inc/subtrack/internal/shared/constants"
	"github.com/orris-inc/subtrack/internal/shared/id"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// User is an operator of the tracker. Admins manage the catalogue and
// receive the due list; users manage customers and mappings.
type User struct {
	id           uint
	sid          string
	email        string
	name         string
	phone        string
	passwordHash string
	role         string
	version      int
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser builds an account. phone may be empty for the bootstrap admin.
func NewUser(email, name, phone, passwordHash, role string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if name == "" {
		return nil, ErrNameRequired
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return nil, ErrInvalidPhone
	}
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}

	sid, err := id.NewUserSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user SID: %w", err)
	}

	now := time.Now().UTC()
	return &User{
		sid:          sid,
		email:        email,
		name:         name,
		phone:        phone,
		passwordHash: passwordHash,
		role:         role,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructUser(id uint, sid, email, name, phone, passwordHash, role string, version int, createdAt, updatedAt time.Time) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf("user %d: %w: %q", id, ErrInvalidRole, role)
	}
	return &User{
		id:           id,
		sid:          sid,
		email:        email,
		name:         name,
		phone:        phone,
		passwordHash: passwordHash,
		role:         role,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func ValidRole(role string) bool {
	return role == constants.RoleAdmin || role == constants.RoleUser
}

func (u *User) ID() uint { return u.id }
func (u *User) SID() string { return u.sid }
func (u *User) Email() string { return u.email }
func (u *User) Name() string { return u.name }
func (u *User) Phone() string { return u.phone }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() string { return u.role }
func (u *User) IsAdmin() bool { return u.role == constants.RoleAdmin }
func (u *User) Version() int { return u.version }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}
