package assignment

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a *Assignment) error
	// Update persists scalar fields and replaces the ledger. It fails with a
	// conflict when the stored version is not a.Version()-1.
	Update(ctx context.Context, a *Assignment) error
	Delete(ctx context.Context, id uint) error
	DeleteByCustomerID(ctx context.Context, customerID uint) (int64, error)
	DeleteByProductID(ctx context.Context, productID uint) (int64, error)

	GetByID(ctx context.Context, id uint) (*Assignment, error)
	GetBySID(ctx context.Context, sid string) (*Assignment, error)
	GetByPair(ctx context.Context, customerID, productID uint) (*Assignment, error)
	ListByCustomerID(ctx context.Context, customerID uint) ([]*Assignment, error)
	ListByProductID(ctx context.Context, productID uint) ([]*Assignment, error)
	List(ctx context.Context, filter Filter) ([]*Assignment, error)

	// MarkReminderSent stores lastReminderSent without touching the ledger.
	MarkReminderSent(ctx context.Context, id uint, at time.Time) error
}

// Filter narrows a full listing. Sorting and paging happen after expiry
// resolution in the application layer because expiry is not a column.
type Filter struct {
	CustomerID *uint
	ProductID  *uint
}
