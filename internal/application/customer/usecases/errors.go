package usecases

import (
	"errors"

	"github.com/orris-inc/subtrack/internal/domain/customer"
	apperrors "github.com/orris-inc/subtrack/internal/shared/errors"
)

// toAppError maps customer domain errors onto API errors. Errors that already
// are AppErrors and unknown errors pass through.
func toAppError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, customer.ErrCustomerNotFound):
		return apperrors.NewNotFoundError("Customer not found")
	case errors.Is(err, customer.ErrNameRequired),
		errors.Is(err, customer.ErrInvalidEmail),
		errors.Is(err, customer.ErrInvalidPhone):
		return apperrors.NewValidationError(err.Error())
	case errors.Is(err, customer.ErrEmailExists),
		errors.Is(err, customer.ErrPhoneExists):
		return apperrors.NewDuplicateError(err.Error())
	}
	return err
}
