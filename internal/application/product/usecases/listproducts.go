package usecases

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/product/dto"
	"github.com/orris-inc/subtrack/internal/domain/product"
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	"github.com/orris-inc/subtrack/internal/shared/constants"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type ListProductsQuery struct {
	Search      string
	BillingType string
	Source      string
	Page        int
	PageSize    int
	SortBy      string
	SortDesc    bool
}

type ListProductsResult struct {
	Products []*dto.ProductDTO
	Total    int64
	Page     int
	PageSize int
}

type ListProductsUseCase struct {
	productRepo product.Repository
	logger      logger.Interface
}

func NewListProductsUseCase(productRepo product.Repository, logger logger.Interface) *ListProductsUseCase {
	return &ListProductsUseCase{productRepo: productRepo, logger: logger}
}

func (uc *ListProductsUseCase) Execute(ctx context.Context, query ListProductsQuery) (*ListProductsResult, error) {
	if query.Page < 1 {
		query.Page = constants.DefaultPage
	}
	if query.PageSize < 1 {
		query.PageSize = constants.DefaultPageSize
	}

	filter := product.Filter{
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
		SortBy:   query.SortBy,
		SortDesc: query.SortDesc,
	}
	if query.BillingType != "" {
		bt, err := vo.ParseBillingType(query.BillingType)
		if err != nil {
			return nil, toAppError(err)
		}
		filter.BillingType = &bt
	}
	if query.Source != "" {
		s, err := vo.ParseSource(query.Source)
		if err != nil {
			return nil, toAppError(err)
		}
		filter.Source = &s
	}

	list, total, err := uc.productRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list products", "error", err)
		return nil, err
	}

	return &ListProductsResult{
		Products: dto.ProductMapper.ToDTOList(list),
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}
