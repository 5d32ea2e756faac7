package mappers

import (
	"fmt"

	"github.com/orris-inc/subtrack/internal/domain/user"
	"github.com/orris-inc/subtrack/internal/infrastructure/persistence/models"
)

// UserMapper converts between user entities and persistence models.
type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) *models.UserModel
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := user.ReconstructUser(
		model.ID,
		model.SID,
		model.Email,
		model.Name,
		model.Phone,
		model.PasswordHash,
		model.Role,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user entity: %w", err)
	}
	return entity, nil
}

func (m *UserMapperImpl) ToModel(entity *user.User) *models.UserModel {
	if entity == nil {
		return nil
	}
	return &models.UserModel{
		ID:           entity.ID(),
		SID:          entity.SID(),
		Email:        entity.Email(),
		Name:         entity.Name(),
		Phone:        entity.Phone(),
		PasswordHash: entity.PasswordHash(),
		Role:         entity.Role(),
		Version:      entity.Version(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
}
