package usecases

import (
	"context"

	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/product"
	"github.com/orris-inc/subtrack/internal/shared/db"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type DeleteProductUseCase struct {
	productRepo    product.Repository
	assignmentRepo assignment.Repository
	txMgr          db.Transactor
	logger         logger.Interface
}

func NewDeleteProductUseCase(
	productRepo product.Repository,
	assignmentRepo assignment.Repository,
	txMgr db.Transactor,
	logger logger.Interface,
) *DeleteProductUseCase {
	return &DeleteProductUseCase{
		productRepo:    productRepo,
		assignmentRepo: assignmentRepo,
		txMgr:          txMgr,
		logger:         logger,
	}
}

// Execute deletes the product with every mapping and ledger that references it.
func (uc *DeleteProductUseCase) Execute(ctx context.Context, sid string) error {
	p, err := uc.productRepo.GetBySID(ctx, sid)
	if err != nil {
		return err
	}
	if p == nil {
		return toAppError(product.ErrProductNotFound)
	}

	var removed int64
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		n, err := uc.assignmentRepo.DeleteByProductID(txCtx, p.ID())
		if err != nil {
			return err
		}
		removed = n
		return uc.productRepo.Delete(txCtx, p.ID())
	})
	if err != nil {
		return toAppError(err)
	}

	uc.logger.Infow("product deleted", "product_id", p.ID(), "mappings_removed", removed)
	return nil
}
