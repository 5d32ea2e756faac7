package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/subtrack/internal/application/reminder/dto"
	"github.com/orris-inc/subtrack/internal/domain/product"
	"github.com/orris-inc/subtrack/internal/domain/renewal"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

// ListAdminProductsUseCase reports each product's own expiry, measured from
// its purchase date, and whether its reminder window has opened.
type ListAdminProductsUseCase struct {
	productRepo product.Repository
	logger      logger.Interface
}

func NewListAdminProductsUseCase(productRepo product.Repository, logger logger.Interface) *ListAdminProductsUseCase {
	return &ListAdminProductsUseCase{productRepo: productRepo, logger: logger}
}

func (uc *ListAdminProductsUseCase) Execute(ctx context.Context) ([]*dto.AdminProductDTO, error) {
	list, _, err := uc.productRepo.List(ctx, product.Filter{SortBy: "name"})
	if err != nil {
		uc.logger.Errorw("failed to list products", "error", err)
		return nil, err
	}

	today := biztime.Today()
	out := make([]*dto.AdminProductDTO, 0, len(list))
	for _, p := range list {
		out = append(out, toAdminProduct(p, today))
	}
	return out, nil
}

func toAdminProduct(p *product.Product, today time.Time) *dto.AdminProductDTO {
	t := p.Terms()
	row := &dto.AdminProductDTO{
		ID:               p.SID(),
		Name:             p.Name(),
		Amount:           t.Amount,
		BillingType:      t.BillingType.String(),
		Source:           t.Source.String(),
		Count:            t.Count,
		Period:           t.Period.String(),
		DatePurchased:    formatDatePtr(p.DatePurchased()),
		ReminderLeadDays: p.ReminderLeadDays(),
	}

	expiry := renewal.ResolveExpiry(renewal.Basis{PurchaseDate: p.DatePurchased(), Terms: t})
	if expiry == nil {
		return row
	}
	days := renewal.DaysUntil(today, *expiry)
	row.Expiry = formatDatePtr(expiry)
	row.DaysUntilExpiry = &days
	row.Bucket = renewal.ClassifyDue(today, expiry).Bucket.String()
	row.Due = renewal.IsReminderDue(today, expiry, p.ReminderLeadDays(), nil)
	return row
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := biztime.FormatDate(*t)
	return &s
}
