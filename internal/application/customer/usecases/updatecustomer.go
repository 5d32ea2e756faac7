package usecases

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/customer/dto"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type UpdateCustomerCommand struct {
	SID   string
	Name  *string
	Email *string
	Phone *string
}

type UpdateCustomerUseCase struct {
	customerRepo customer.Repository
	logger       logger.Interface
}

func NewUpdateCustomerUseCase(customerRepo customer.Repository, logger logger.Interface) *UpdateCustomerUseCase {
	return &UpdateCustomerUseCase{customerRepo: customerRepo, logger: logger}
}

func (uc *UpdateCustomerUseCase) Execute(ctx context.Context, cmd UpdateCustomerCommand) (*dto.CustomerDTO, error) {
	c, err := uc.customerRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, toAppError(customer.ErrCustomerNotFound)
	}

	before := c.Version()
	if err := c.UpdateContact(cmd.Name, cmd.Email, cmd.Phone); err != nil {
		return nil, toAppError(err)
	}
	if c.Version() == before {
		return dto.CustomerMapper.ToDTO(c), nil
	}

	if err := checkContactUnique(ctx, uc.customerRepo, c.Email(), c.Phone(), c.ID()); err != nil {
		return nil, toAppError(err)
	}
	if err := uc.customerRepo.Update(ctx, c); err != nil {
		return nil, toAppError(err)
	}

	uc.logger.Infow("customer updated", "customer_id", c.ID(), "version", c.Version())
	return dto.CustomerMapper.ToDTO(c), nil
}
