package product

import "errors"

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrNameRequired         = errors.New("product name is required")
	ErrPurchaseDateInFuture = errors.New("purchase date cannot be in the future")
	ErrInvalidReminderLead  = errors.New("reminder lead days must not be negative")
)
