package usecases

import (
	"errors"

	"github.com/orris-inc/subtrack/internal/domain/product"
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	apperrors "github.com/orris-inc/subtrack/internal/shared/errors"
)

func toAppError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, product.ErrProductNotFound):
		return apperrors.NewNotFoundError("Product not found")
	case errors.Is(err, product.ErrNameRequired),
		errors.Is(err, product.ErrPurchaseDateInFuture),
		errors.Is(err, product.ErrInvalidReminderLead),
		errors.Is(err, vo.ErrInvalidAmount),
		errors.Is(err, vo.ErrInvalidBillingType),
		errors.Is(err, vo.ErrInvalidSource),
		errors.Is(err, vo.ErrInvalidPeriodUnit),
		errors.Is(err, vo.ErrInvalidDuration):
		return apperrors.NewValidationError(err.Error())
	}
	return err
}
