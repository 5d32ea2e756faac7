package usecases

import (
	"errors"

	"github.com/orris-inc/subtrack/internal/domain/assignment"
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	apperrors "github.com/orris-inc/subtrack/internal/shared/errors"
)

var errMappingNotFound = apperrors.NewNotFoundError("Mapping not found")

func toAppError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, assignment.ErrAssignmentNotFound):
		return errMappingNotFound
	case errors.Is(err, assignment.ErrEntryNotFound):
		return apperrors.NewNotFoundError("Subscription not found")
	case errors.Is(err, assignment.ErrDuplicateAssignment):
		return apperrors.NewDuplicateError("Mapping already exists")
	case errors.Is(err, assignment.ErrInvalidAmount):
		return apperrors.NewValidationError("Subscription amount must be greater than 0")
	case errors.Is(err, assignment.ErrInvalidUnits):
		return apperrors.NewValidationError("Subscription units must be greater than 0")
	case errors.Is(err, assignment.ErrDateInFuture),
		errors.Is(err, assignment.ErrInvalidReference),
		errors.Is(err, vo.ErrInvalidAmount),
		errors.Is(err, vo.ErrInvalidBillingType),
		errors.Is(err, vo.ErrInvalidSource),
		errors.Is(err, vo.ErrInvalidPeriodUnit),
		errors.Is(err, vo.ErrInvalidDuration):
		return apperrors.NewValidationError(err.Error())
	}
	return err
}
