package usecases

import (
	apperrors "github.com/orris-inc/subtrack/internal/shared/errors"
)

var (
	errMappingNotFound    = apperrors.NewNotFoundError("Mapping not found")
	errNoCustomerEmail    = apperrors.NewValidationError("Customer email not found")
	errExpiryUnknown      = apperrors.NewValidationError("Expiry date could not be determined")
	errSendReminderFailed = apperrors.NewInternalError("Failed to send reminder")
)
