package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/subtrack/internal/infrastructure/persistence/models"
	"github.com/orris-inc/subtrack/internal/shared/db"
	"github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

// AssignmentRepository stores mappings together with their ledger rows.
// The ledger is always written as a whole.
type AssignmentRepository struct {
	db     *gorm.DB
	mapper mappers.AssignmentMapper
	logger logger.Interface
}

func NewAssignmentRepository(db *gorm.DB, logger logger.Interface) assignment.Repository {
	return &AssignmentRepository{
		db:     db,
		mapper: mappers.NewAssignmentMapper(),
		logger: logger,
	}
}

func withLedger(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Entries", func(q *gorm.DB) *gorm.DB {
		return q.Order("ordinal ASC")
	})
}

func (r *AssignmentRepository) Create(ctx context.Context, a *assignment.Assignment) error {
	model := r.mapper.ToModel(a)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return assignment.ErrDuplicateAssignment
		}
		r.logger.Errorw("failed to create assignment",
			"customer_id", model.CustomerID,
			"product_id", model.ProductID,
			"error", err)
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	if err := a.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set assignment ID: %w", err)
	}
	a.MarkPersisted()

	r.logger.Infow("assignment created",
		"id", model.ID,
		"customer_id", model.CustomerID,
		"product_id", model.ProductID)
	return nil
}

// Update checks the stored version against the one a was loaded at, so any
// number of mutations between saves count as one revision.
func (r *AssignmentRepository) Update(ctx context.Context, a *assignment.Assignment) error {
	model := r.mapper.ToModel(a)

	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.AssignmentModel{}).
			Where("id = ? AND version = ?", model.ID, a.PersistedVersion()).
			Updates(map[string]interface{}{
				"remarks":               model.Remarks,
				"date_assigned":         model.DateAssigned,
				"override_amount":       model.OverrideAmount,
				"override_billing_type": model.OverrideBillingType,
				"override_source":       model.OverrideSource,
				"override_period_count": model.OverridePeriodCount,
				"override_period_unit":  model.OverridePeriodUnit,
				"version":               model.Version,
				"updated_at":            model.UpdatedAt,
			})
		if result.Error != nil {
			r.logger.Errorw("failed to update assignment", "id", model.ID, "error", result.Error)
			return fmt.Errorf("failed to update assignment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return errors.NewConflictError("mapping was modified concurrently, please retry")
		}

		if err := tx.Where("assignment_id = ?", model.ID).Delete(&models.LedgerEntryModel{}).Error; err != nil {
			r.logger.Errorw("failed to clear ledger", "assignment_id", model.ID, "error", err)
			return fmt.Errorf("failed to clear ledger: %w", err)
		}
		if len(model.Entries) > 0 {
			if err := tx.Create(&model.Entries).Error; err != nil {
				r.logger.Errorw("failed to write ledger", "assignment_id", model.ID, "error", err)
				return fmt.Errorf("failed to write ledger: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	a.MarkPersisted()
	return nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, id uint) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&models.LedgerEntryModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete ledger: %w", err)
		}
		result := tx.Delete(&models.AssignmentModel{}, id)
		if result.Error != nil {
			r.logger.Errorw("failed to delete assignment", "id", id, "error", result.Error)
			return fmt.Errorf("failed to delete assignment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return assignment.ErrAssignmentNotFound
		}
		r.logger.Infow("assignment deleted", "id", id)
		return nil
	})
}

func (r *AssignmentRepository) DeleteByCustomerID(ctx context.Context, customerID uint) (int64, error) {
	return r.deleteWhere(ctx, "customer_id = ?", customerID)
}

func (r *AssignmentRepository) DeleteByProductID(ctx context.Context, productID uint) (int64, error) {
	return r.deleteWhere(ctx, "product_id = ?", productID)
}

func (r *AssignmentRepository) deleteWhere(ctx context.Context, query string, arg uint) (int64, error) {
	var deleted int64
	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		ids := tx.Model(&models.AssignmentModel{}).Select("id").Where(query, arg)
		if err := tx.Where("assignment_id IN (?)", ids).Delete(&models.LedgerEntryModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete ledgers: %w", err)
		}
		result := tx.Where(query, arg).Delete(&models.AssignmentModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete assignments: %w", result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		r.logger.Errorw("failed to delete assignments", "filter", query, "value", arg, "error", err)
		return 0, err
	}
	return deleted, nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id uint) (*assignment.Assignment, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *AssignmentRepository) GetBySID(ctx context.Context, sid string) (*assignment.Assignment, error) {
	return r.first(ctx, "sid = ?", sid)
}

func (r *AssignmentRepository) GetByPair(ctx context.Context, customerID, productID uint) (*assignment.Assignment, error) {
	var model models.AssignmentModel
	err := withLedger(db.GetTxFromContext(ctx, r.db)).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get assignment by pair",
			"customer_id", customerID,
			"product_id", productID,
			"error", err)
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *AssignmentRepository) first(ctx context.Context, query string, arg interface{}) (*assignment.Assignment, error) {
	var model models.AssignmentModel
	if err := withLedger(db.GetTxFromContext(ctx, r.db)).Where(query, arg).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get assignment", "key", arg, "error", err)
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *AssignmentRepository) ListByCustomerID(ctx context.Context, customerID uint) ([]*assignment.Assignment, error) {
	return r.List(ctx, assignment.Filter{CustomerID: &customerID})
}

func (r *AssignmentRepository) ListByProductID(ctx context.Context, productID uint) ([]*assignment.Assignment, error) {
	return r.List(ctx, assignment.Filter{ProductID: &productID})
}

func (r *AssignmentRepository) List(ctx context.Context, filter assignment.Filter) ([]*assignment.Assignment, error) {
	var list []*models.AssignmentModel

	query := withLedger(db.GetTxFromContext(ctx, r.db))
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}

	if err := query.Order("id ASC").Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list assignments", "error", err)
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return r.mapper.ToEntities(list)
}

// MarkReminderSent leaves version and updated_at alone; a reminder is not an edit.
func (r *AssignmentRepository) MarkReminderSent(ctx context.Context, id uint, at time.Time) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.AssignmentModel{}).
		Where("id = ?", id).
		UpdateColumn("last_reminder_sent_at", at)
	if result.Error != nil {
		r.logger.Errorw("failed to mark reminder sent", "id", id, "error", result.Error)
		return fmt.Errorf("failed to mark reminder sent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return assignment.ErrAssignmentNotFound
	}
	return nil
}
