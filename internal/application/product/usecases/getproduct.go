package usecases

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/product/dto"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type GetProductUseCase struct {
	productRepo    product.Repository
	assignmentRepo assignment.Repository
	customerRepo   customer.Repository
	logger         logger.Interface
}

func NewGetProductUseCase(
	productRepo product.Repository,
	assignmentRepo assignment.Repository,
	customerRepo customer.Repository,
	logger logger.Interface,
) *GetProductUseCase {
	return &GetProductUseCase{
		productRepo:    productRepo,
		assignmentRepo: assignmentRepo,
		customerRepo:   customerRepo,
		logger:         logger,
	}
}

// Execute returns the product with the customers it is linked to.
func (uc *GetProductUseCase) Execute(ctx context.Context, sid string) (*dto.ProductDTO, error) {
	p, err := uc.productRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, toAppError(product.ErrProductNotFound)
	}

	assignments, err := uc.assignmentRepo.ListByProductID(ctx, p.ID())
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.CustomerID())
	}
	customers, err := uc.customerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := dto.ProductMapper.ToDTO(p)
	for _, c := range customers {
		out.Customers = append(out.Customers, dto.ToCustomerSummary(c))
	}
	return out, nil
}
