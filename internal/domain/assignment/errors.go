package assignment

import "errors"

var (
	ErrAssignmentNotFound  = errors.New("mapping not found")
	ErrEntryNotFound       = errors.New("subscription not found")
	ErrDuplicateAssignment = errors.New("mapping already exists")
	ErrInvalidAmount       = errors.New("subscription amount must be greater than 0")
	ErrInvalidUnits        = errors.New("subscription units must be greater than 0")
	ErrDateInFuture        = errors.New("assignment date cannot be in the future")
	ErrInvalidReference    = errors.New("customer and product are required")
)
