package mappers

import (
	"fmt"

	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/infrastructure/persistence/models"
	"github.com/orris-inc/subtrack/internal/shared/mapper"
)

// CustomerMapper converts between customer entities and persistence models.
type CustomerMapper interface {
	ToEntity(model *models.CustomerModel) (*customer.Customer, error)
	ToModel(entity *customer.Customer) *models.CustomerModel
	ToEntities(models []*models.CustomerModel) ([]*customer.Customer, error)
}

type CustomerMapperImpl struct{}

func NewCustomerMapper() CustomerMapper {
	return &CustomerMapperImpl{}
}

func (m *CustomerMapperImpl) ToEntity(model *models.CustomerModel) (*customer.Customer, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := customer.ReconstructCustomer(
		model.ID,
		model.SID,
		model.Name,
		model.Email,
		model.Phone,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct customer entity: %w", err)
	}
	return entity, nil
}

func (m *CustomerMapperImpl) ToModel(entity *customer.Customer) *models.CustomerModel {
	if entity == nil {
		return nil
	}
	return &models.CustomerModel{
		ID:        entity.ID(),
		SID:       entity.SID(),
		Name:      entity.Name(),
		Email:     entity.Email(),
		Phone:     entity.Phone(),
		Version:   entity.Version(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
}

func (m *CustomerMapperImpl) ToEntities(list []*models.CustomerModel) ([]*customer.Customer, error) {
	return mapper.MapSlicePtrWithID(list, m.ToEntity, func(model *models.CustomerModel) uint {
		return model.ID
	})
}
