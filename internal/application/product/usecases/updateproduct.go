package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/subtrack/internal/application/product/dto"
	"github.com/orris-inc/subtrack/internal/domain/product"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type UpdateProductCommand struct {
	SID              string
	Name             *string
	Description      *string
	Terms            TermsInput
	DatePurchased    *time.Time
	ClearPurchased   bool
	ReminderLeadDays *int
}

type UpdateProductUseCase struct {
	productRepo product.Repository
	logger      logger.Interface
}

func NewUpdateProductUseCase(productRepo product.Repository, logger logger.Interface) *UpdateProductUseCase {
	return &UpdateProductUseCase{productRepo: productRepo, logger: logger}
}

func (uc *UpdateProductUseCase) Execute(ctx context.Context, cmd UpdateProductCommand) (*dto.ProductDTO, error) {
	p, err := uc.productRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, toAppError(product.ErrProductNotFound)
	}

	update := product.Update{
		Name:             cmd.Name,
		Description:      cmd.Description,
		DatePurchased:    cmd.DatePurchased,
		ClearPurchased:   cmd.ClearPurchased,
		ReminderLeadDays: cmd.ReminderLeadDays,
	}
	if !cmd.Terms.IsEmpty() {
		terms, err := applyTerms(p.Terms(), cmd.Terms)
		if err != nil {
			return nil, toAppError(err)
		}
		update.Terms = &terms
	}

	if err := p.Apply(update, biztime.Today()); err != nil {
		return nil, toAppError(err)
	}
	if err := uc.productRepo.Update(ctx, p); err != nil {
		return nil, toAppError(err)
	}

	uc.logger.Infow("product updated", "product_id", p.ID(), "version", p.Version())
	return dto.ProductMapper.ToDTO(p), nil
}
