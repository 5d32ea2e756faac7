package product

import (
	"context"

	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetBySID(ctx context.Context, sid string) (*Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Product, error)
	List(ctx context.Context, filter Filter) ([]*Product, int64, error)
}

type Filter struct {
	Search      string
	BillingType *vo.BillingType
	Source      *vo.Source
	Page        int
	PageSize    int
	SortBy      string
	SortDesc    bool
}
