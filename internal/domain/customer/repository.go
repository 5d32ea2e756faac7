package customer

import "context"

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Customer, error)
	GetBySID(ctx context.Context, sid string) (*Customer, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Customer, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	ExistsByPhone(ctx context.Context, phone string, excludeID uint) (bool, error)
	List(ctx context.Context, filter Filter) ([]*Customer, int64, error)
}

type Filter struct {
	Search   string
	Page     int
	PageSize int
	SortBy   string
	SortDesc bool
}
