package usecases

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/customer/dto"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/shared/constants"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type ListCustomersQuery struct {
	Search   string
	Page     int
	PageSize int
	SortBy   string
	SortDesc bool
}

type ListCustomersResult struct {
	Customers []*dto.CustomerDTO
	Total     int64
	Page      int
	PageSize  int
}

type ListCustomersUseCase struct {
	customerRepo customer.Repository
	logger       logger.Interface
}

func NewListCustomersUseCase(customerRepo customer.Repository, logger logger.Interface) *ListCustomersUseCase {
	return &ListCustomersUseCase{customerRepo: customerRepo, logger: logger}
}

func (uc *ListCustomersUseCase) Execute(ctx context.Context, query ListCustomersQuery) (*ListCustomersResult, error) {
	if query.Page < 1 {
		query.Page = constants.DefaultPage
	}
	if query.PageSize < 1 {
		query.PageSize = constants.DefaultPageSize
	}

	list, total, err := uc.customerRepo.List(ctx, customer.Filter{
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
		SortBy:   query.SortBy,
		SortDesc: query.SortDesc,
	})
	if err != nil {
		uc.logger.Errorw("failed to list customers", "error", err)
		return nil, err
	}

	return &ListCustomersResult{
		Customers: dto.CustomerMapper.ToDTOList(list),
		Total:     total,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}, nil
}
