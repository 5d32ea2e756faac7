package handlers

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/user/dto"
	"github.com/orris-inc/subtrack/internal/application/user/usecases"
)

// Use case interfaces for AuthHandler

type registerUseCase interface {
	Execute(ctx context.Context, cmd usecases.RegisterCommand) (*dto.UserDTO, error)
}

type loginUseCase interface {
	Execute(ctx context.Context, cmd usecases.LoginCommand) (*dto.TokenDTO, error)
}

type getCurrentUserUseCase interface {
	Execute(ctx context.Context, query usecases.CurrentUserQuery) (*dto.UserDTO, error)
}
