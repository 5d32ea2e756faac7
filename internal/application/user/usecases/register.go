package usecases

import (
	"context"
	"strings"

	"github.com/orris-inc/subtrack/internal/application/user/dto"
	"github.com/orris-inc/subtrack/internal/domain/user"
	"github.com/orris-inc/subtrack/internal/shared/constants"
	apperrors "github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type RegisterCommand struct {
	FullName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

type RegisterUseCase struct {
	userRepo user.Repository
	hasher   PasswordHasher
	logger   logger.Interface
}

func NewRegisterUseCase(userRepo user.Repository, hasher PasswordHasher, logger logger.Interface) *RegisterUseCase {
	return &RegisterUseCase{userRepo: userRepo, hasher: hasher, logger: logger}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (*dto.UserDTO, error) {
	if cmd.Password != cmd.ConfirmPassword {
		return nil, apperrors.NewValidationError("Passwords do not match")
	}
	if err := user.ValidatePassword(cmd.Password); err != nil {
		return nil, toAppError(err)
	}

	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	exists, err := uc.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		uc.logger.Errorw("failed to check user email", "error", err)
		return nil, err
	}
	if exists {
		return nil, toAppError(user.ErrEmailTaken)
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		uc.logger.Errorw("failed to hash password", "error", err)
		return nil, err
	}

	u, err := user.NewUser(email, cmd.FullName, cmd.Phone, hash, constants.RoleUser)
	if err != nil {
		return nil, toAppError(err)
	}
	if err := uc.userRepo.Create(ctx, u); err != nil {
		return nil, toAppError(err)
	}

	uc.logger.Infow("user registered", "user_id", u.ID(), "sid", u.SID())
	return dto.UserMapper.ToDTO(u), nil
}
