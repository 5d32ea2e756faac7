package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/subtrack/internal/infrastructure/persistence/models"
	"github.com/orris-inc/subtrack/internal/shared/db"
	"github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

var customerSortColumns = map[string]string{
	"name":      "name",
	"email":     "email",
	"createdAt": "created_at",
}

type CustomerRepository struct {
	db     *gorm.DB
	mapper mappers.CustomerMapper
	logger logger.Interface
}

func NewCustomerRepository(db *gorm.DB, logger logger.Interface) customer.Repository {
	return &CustomerRepository{
		db:     db,
		mapper: mappers.NewCustomerMapper(),
		logger: logger,
	}
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	model := r.mapper.ToModel(c)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewDuplicateError("customer with this email or phone already exists")
		}
		r.logger.Errorw("failed to create customer", "email", model.Email, "error", err)
		return fmt.Errorf("failed to create customer: %w", err)
	}

	if err := c.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set customer ID: %w", err)
	}

	r.logger.Infow("customer created", "id", model.ID, "sid", model.SID)
	return nil
}

// Update writes contact fields if the stored version is one behind c.
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	model := r.mapper.ToModel(c)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.CustomerModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"name":       model.Name,
			"email":      model.Email,
			"phone":      model.Phone,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		if errors.IsDuplicateError(result.Error) {
			return errors.NewDuplicateError("customer with this email or phone already exists")
		}
		r.logger.Errorw("failed to update customer", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewConflictError("customer was modified concurrently, please retry")
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Delete(&models.CustomerModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete customer", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return customer.ErrCustomerNotFound
	}

	r.logger.Infow("customer deleted", "id", id)
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uint) (*customer.Customer, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CustomerRepository) GetBySID(ctx context.Context, sid string) (*customer.Customer, error) {
	return r.first(ctx, "sid = ?", sid)
}

func (r *CustomerRepository) first(ctx context.Context, query string, arg interface{}) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get customer", "key", arg, "error", err)
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *CustomerRepository) GetByIDs(ctx context.Context, ids []uint) ([]*customer.Customer, error) {
	if len(ids) == 0 {
		return []*customer.Customer{}, nil
	}
	var list []*models.CustomerModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Find(&list).Error; err != nil {
		r.logger.Errorw("failed to get customers by IDs", "count", len(ids), "error", err)
		return nil, fmt.Errorf("failed to get customers: %w", err)
	}
	return r.mapper.ToEntities(list)
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.exists(ctx, "email = ?", email, excludeID)
}

func (r *CustomerRepository) ExistsByPhone(ctx context.Context, phone string, excludeID uint) (bool, error) {
	return r.exists(ctx, "phone = ?", phone, excludeID)
}

func (r *CustomerRepository) exists(ctx context.Context, query string, arg interface{}, excludeID uint) (bool, error) {
	var count int64
	q := db.GetTxFromContext(ctx, r.db).Model(&models.CustomerModel{}).Where(query, arg)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		r.logger.Errorw("failed to check customer existence", "error", err)
		return false, fmt.Errorf("failed to check customer existence: %w", err)
	}
	return count > 0, nil
}

func (r *CustomerRepository) List(ctx context.Context, filter customer.Filter) ([]*customer.Customer, int64, error) {
	var list []*models.CustomerModel
	var total int64

	query := db.GetTxFromContext(ctx, r.db).Model(&models.CustomerModel{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count customers", "error", err)
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	err := query.
		Scopes(db.OrderBy(customerSortColumns, filter.SortBy, filter.SortDesc, "name")).
		Scopes(db.Paginate(filter.Page, filter.PageSize)).
		Find(&list).Error
	if err != nil {
		r.logger.Errorw("failed to list customers", "error", err)
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}

	entities, err := r.mapper.ToEntities(list)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}
