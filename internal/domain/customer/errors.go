package customer

import "errors"

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrNameRequired     = errors.New("customer name is required")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPhone     = errors.New("phone must be at most 10 digits")
	ErrEmailExists      = errors.New("email already exists")
	ErrPhoneExists      = errors.New("phone already exists")
)
