package usecases

import (
	"errors"
	"time"

	"github.com/orris-inc/subtrack/internal/domain/user"
	apperrors "github.com/orris-inc/subtrack/internal/shared/errors"
)

var errInvalidCredentials = apperrors.NewUnauthorizedError("Invalid credentials")

// PasswordHasher hashes and checks plaintext passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Generate(userSID, email, role string) (string, time.Time, error)
}

func toAppError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, user.ErrUserNotFound):
		return apperrors.NewNotFoundError("User not found")
	case errors.Is(err, user.ErrEmailTaken):
		return apperrors.NewDuplicateError("User already exists")
	case errors.Is(err, user.ErrInvalidCredentials):
		return errInvalidCredentials
	case errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrNameRequired),
		errors.Is(err, user.ErrInvalidPhone),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, user.ErrWeakPassword):
		return apperrors.NewValidationError(err.Error())
	}
	return err
}
