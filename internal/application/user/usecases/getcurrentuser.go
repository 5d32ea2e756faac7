package usecases

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/user/dto"
	"github.com/orris-inc/subtrack/internal/domain/user"
	"github.com/orris-inc/subtrack/internal/shared/constants"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

// CurrentUserQuery carries the identity taken from the access token.
type CurrentUserQuery struct {
	UserSID string
	Email   string
	Role    string
}

type GetCurrentUserUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewGetCurrentUserUseCase(userRepo user.Repository, logger logger.Interface) *GetCurrentUserUseCase {
	return &GetCurrentUserUseCase{userRepo: userRepo, logger: logger}
}

func (uc *GetCurrentUserUseCase) Execute(ctx context.Context, query CurrentUserQuery) (*dto.UserDTO, error) {
	if query.UserSID == "" && query.Role == constants.RoleAdmin {
		return dto.BootstrapAdmin(query.Email), nil
	}

	u, err := uc.userRepo.GetBySID(ctx, query.UserSID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "sid", query.UserSID, "error", err)
		return nil, err
	}
	if u == nil {
		return nil, toAppError(user.ErrUserNotFound)
	}
	return dto.UserMapper.ToDTO(u), nil
}
