package usecases

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/customer/dto"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type GetCustomerUseCase struct {
	customerRepo   customer.Repository
	assignmentRepo assignment.Repository
	productRepo    product.Repository
	logger         logger.Interface
}

func NewGetCustomerUseCase(
	customerRepo customer.Repository,
	assignmentRepo assignment.Repository,
	productRepo product.Repository,
	logger logger.Interface,
) *GetCustomerUseCase {
	return &GetCustomerUseCase{
		customerRepo:   customerRepo,
		assignmentRepo: assignmentRepo,
		productRepo:    productRepo,
		logger:         logger,
	}
}

// Execute returns the customer with the products linked to it.
func (uc *GetCustomerUseCase) Execute(ctx context.Context, sid string) (*dto.CustomerDTO, error) {
	c, err := uc.customerRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, toAppError(customer.ErrCustomerNotFound)
	}

	assignments, err := uc.assignmentRepo.ListByCustomerID(ctx, c.ID())
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.ProductID())
	}
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := dto.CustomerMapper.ToDTO(c)
	for _, p := range products {
		out.Products = append(out.Products, dto.ToProductSummary(p))
	}
	return out, nil
}
