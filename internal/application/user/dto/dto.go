package dto

import (
	"time"

	"github.com/orris-inc/subtrack/internal/domain/user"
	"github.com/orris-inc/subtrack/internal/shared/constants"
	"github.com/orris-inc/subtrack/internal/shared/mapper"
)

// UserDTO is the current-user view.
type UserDTO struct {
	ID        string     `json:"id,omitempty"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Role      string     `json:"role"`
	IsAdmin   bool       `json:"isAdmin"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// TokenDTO is returned by login.
type TokenDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *UserDTO  `json:"user"`
}

func toUserDTO(u *user.User) *UserDTO {
	created := u.CreatedAt()
	return &UserDTO{
		ID:        u.SID(),
		FullName:  u.Name(),
		Email:     u.Email(),
		Phone:     u.Phone(),
		Role:      u.Role(),
		IsAdmin:   u.IsAdmin(),
		CreatedAt: &created,
	}
}

var UserMapper = mapper.New(toUserDTO)

// BootstrapAdmin describes the configured administrator, which has no
// stored record.
func BootstrapAdmin(email string) *UserDTO {
	return &UserDTO{
		FullName: "Administrator",
		Email:    email,
		Role:     constants.RoleAdmin,
		IsAdmin:  true,
	}
}
