package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/subtrack/internal/domain/product"
	"github.com/orris-inc/subtrack/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/subtrack/internal/infrastructure/persistence/models"
	"github.com/orris-inc/subtrack/internal/shared/db"
	"github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

var productSortColumns = map[string]string{
	"name":          "name",
	"amount":        "amount",
	"datePurchased": "date_purchased",
	"createdAt":     "created_at",
}

type ProductRepository struct {
	db     *gorm.DB
	mapper mappers.ProductMapper
	logger logger.Interface
}

func NewProductRepository(db *gorm.DB, logger logger.Interface) product.Repository {
	return &ProductRepository{
		db:     db,
		mapper: mappers.NewProductMapper(),
		logger: logger,
	}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	model := r.mapper.ToModel(p)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create product", "name", model.Name, "error", err)
		return fmt.Errorf("failed to create product: %w", err)
	}
	if err := p.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set product ID: %w", err)
	}
	r.logger.Infow("product created", "id", model.ID, "sid", model.SID)
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	model := r.mapper.ToModel(p)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.ProductModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"name":               model.Name,
			"description":        model.Description,
			"amount":             model.Amount,
			"billing_type":       model.BillingType,
			"source":             model.Source,
			"period_count":       model.PeriodCount,
			"period_unit":        model.PeriodUnit,
			"date_purchased":     model.DatePurchased,
			"reminder_lead_days": model.ReminderLeadDays,
			"version":            model.Version,
			"updated_at":         model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update product", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewConflictError("product was modified concurrently, please retry")
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.ProductModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete product", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}
	r.logger.Infow("product deleted", "id", id)
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ProductRepository) GetBySID(ctx context.Context, sid string) (*product.Product, error) {
	return r.first(ctx, "sid = ?", sid)
}

func (r *ProductRepository) first(ctx context.Context, query string, arg interface{}) (*product.Product, error) {
	var model models.ProductModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get product", "key", arg, "error", err)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []uint) ([]*product.Product, error) {
	if len(ids) == 0 {
		return []*product.Product{}, nil
	}
	var list []*models.ProductModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Find(&list).Error; err != nil {
		r.logger.Errorw("failed to get products by IDs", "count", len(ids), "error", err)
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return r.mapper.ToEntities(list)
}

func (r *ProductRepository) List(ctx context.Context, filter product.Filter) ([]*product.Product, int64, error) {
	var list []*models.ProductModel
	var total int64

	query := db.GetTxFromContext(ctx, r.db).Model(&models.ProductModel{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if filter.BillingType != nil {
		query = query.Where("billing_type = ?", filter.BillingType.String())
	}
	if filter.Source != nil {
		query = query.Where("source = ?", filter.Source.String())
	}

	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count products", "error", err)
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	err := query.
		Scopes(db.OrderBy(productSortColumns, filter.SortBy, filter.SortDesc, "name")).
		Scopes(db.Paginate(filter.Page, filter.PageSize)).
		Find(&list).Error
	if err != nil {
		r.logger.Errorw("failed to list products", "error", err)
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	entities, err := r.mapper.ToEntities(list)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}
