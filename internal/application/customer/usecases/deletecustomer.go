package usecases

import (
	"context"

	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/shared/db"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type DeleteCustomerUseCase struct {
	customerRepo   customer.Repository
	assignmentRepo assignment.Repository
	txMgr          db.Transactor
	logger         logger.Interface
}

func NewDeleteCustomerUseCase(
	customerRepo customer.Repository,
	assignmentRepo assignment.Repository,
	txMgr db.Transactor,
	logger logger.Interface,
) *DeleteCustomerUseCase {
	return &DeleteCustomerUseCase{
		customerRepo:   customerRepo,
		assignmentRepo: assignmentRepo,
		txMgr:          txMgr,
		logger:         logger,
	}
}

// Execute deletes the customer and every mapping and ledger it owns.
func (uc *DeleteCustomerUseCase) Execute(ctx context.Context, sid string) error {
	c, err := uc.customerRepo.GetBySID(ctx, sid)
	if err != nil {
		return err
	}
	if c == nil {
		return toAppError(customer.ErrCustomerNotFound)
	}

	var removed int64
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		n, err := uc.assignmentRepo.DeleteByCustomerID(txCtx, c.ID())
		if err != nil {
			return err
		}
		removed = n
		return uc.customerRepo.Delete(txCtx, c.ID())
	})
	if err != nil {
		return toAppError(err)
	}

	uc.logger.Infow("customer deleted", "customer_id", c.ID(), "mappings_removed", removed)
	return nil
}
