package handlers

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/customer/dto"
	"github.com/orris-inc/subtrack/internal/application/customer/usecases"
)

// Use case interfaces for CustomerHandler

type createCustomerUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateCustomerCommand) (*dto.CustomerDTO, error)
}

type updateCustomerUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateCustomerCommand) (*dto.CustomerDTO, error)
}

type getCustomerUseCase interface {
	Execute(ctx context.Context, sid string) (*dto.CustomerDTO, error)
}

type listCustomersUseCase interface {
	Execute(ctx context.Context, query usecases.ListCustomersQuery) (*usecases.ListCustomersResult, error)
}

type deleteCustomerUseCase interface {
	Execute(ctx context.Context, sid string) error
}

type linkProductUseCase interface {
	Link(ctx context.Context, cmd usecases.LinkProductCommand) (*dto.LinkDTO, error)
	Unlink(ctx context.Context, cmd usecases.LinkProductCommand) (*dto.LinkDTO, error)
}
