package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrNameRequired       = errors.New("name is required")
	ErrInvalidPhone       = errors.New("phone must be exactly 10 digits")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
