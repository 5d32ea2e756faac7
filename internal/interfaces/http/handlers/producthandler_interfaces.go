package handlers

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/product/dto"
	"github.com/orris-inc/subtrack/internal/application/product/usecases"
)

// Use case interfaces for ProductHandler

type createProductUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateProductCommand) (*dto.ProductDTO, error)
}

type updateProductUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateProductCommand) (*dto.ProductDTO, error)
}

type getProductUseCase interface {
	Execute(ctx context.Context, sid string) (*dto.ProductDTO, error)
}

type listProductsUseCase interface {
	Execute(ctx context.Context, query usecases.ListProductsQuery) (*usecases.ListProductsResult, error)
}

type deleteProductUseCase interface {
	Execute(ctx context.Context, sid string) error
}
