package mappers

import (
	"fmt"

	"github.com/orris-inc/subtrack/internal/domain/product"
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	"github.com/orris-inc/subtrack/internal/infrastructure/persistence/models"
	"github.com/orris-inc/subtrack/internal/shared/mapper"
)

// ProductMapper converts between product entities and persistence models.
type ProductMapper interface {
	ToEntity(model *models.ProductModel) (*product.Product, error)
	ToModel(entity *product.Product) *models.ProductModel
	ToEntities(models []*models.ProductModel) ([]*product.Product, error)
}

type ProductMapperImpl struct{}

func NewProductMapper() ProductMapper {
	return &ProductMapperImpl{}
}

func (m *ProductMapperImpl) ToEntity(model *models.ProductModel) (*product.Product, error) {
	if model == nil {
		return nil, nil
	}

	terms, err := termsFromColumns(model.Amount, model.BillingType, model.Source, model.PeriodCount, model.PeriodUnit)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", model.ID, err)
	}

	entity, err := product.ReconstructProduct(
		model.ID,
		model.SID,
		model.Name,
		model.Description,
		terms,
		fromDatePtr(model.DatePurchased),
		model.ReminderLeadDays,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct product entity: %w", err)
	}
	return entity, nil
}

func (m *ProductMapperImpl) ToModel(entity *product.Product) *models.ProductModel {
	if entity == nil {
		return nil
	}
	terms := entity.Terms()
	return &models.ProductModel{
		ID:               entity.ID(),
		SID:              entity.SID(),
		Name:             entity.Name(),
		Description:      entity.Description(),
		Amount:           terms.Amount,
		BillingType:      terms.BillingType.String(),
		Source:           terms.Source.String(),
		PeriodCount:      terms.Count,
		PeriodUnit:       terms.Period.String(),
		DatePurchased:    toDatePtr(entity.DatePurchased()),
		ReminderLeadDays: entity.ReminderLeadDays(),
		Version:          entity.Version(),
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}
}

func (m *ProductMapperImpl) ToEntities(list []*models.ProductModel) ([]*product.Product, error) {
	return mapper.MapSlicePtrWithID(list, m.ToEntity, func(model *models.ProductModel) uint {
		return model.ID
	})
}

func termsFromColumns(amount float64, billingType, source string, count int, unit string) (vo.Terms, error) {
	bt, err := vo.ParseBillingType(billingType)
	if err != nil {
		return vo.Terms{}, err
	}
	src, err := vo.ParseSource(source)
	if err != nil {
		return vo.Terms{}, err
	}
	period, err := vo.ParsePeriodUnit(unit)
	if err != nil {
		return vo.Terms{}, err
	}
	return vo.Terms{
		Amount:      amount,
		BillingType: bt,
		Source:      src,
		Count:       count,
		Period:      period,
	}, nil
}
