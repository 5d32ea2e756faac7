package usecases

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/customer/dto"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type CreateCustomerCommand struct {
	Name  string
	Email string
	Phone string
}

type CreateCustomerUseCase struct {
	customerRepo customer.Repository
	logger       logger.Interface
}

func NewCreateCustomerUseCase(customerRepo customer.Repository, logger logger.Interface) *CreateCustomerUseCase {
	return &CreateCustomerUseCase{customerRepo: customerRepo, logger: logger}
}

func (uc *CreateCustomerUseCase) Execute(ctx context.Context, cmd CreateCustomerCommand) (*dto.CustomerDTO, error) {
	c, err := customer.NewCustomer(cmd.Name, cmd.Email, cmd.Phone)
	if err != nil {
		uc.logger.Warnw("invalid create customer command", "error", err)
		return nil, toAppError(err)
	}

	if err := checkContactUnique(ctx, uc.customerRepo, c.Email(), c.Phone(), 0); err != nil {
		return nil, toAppError(err)
	}

	if err := uc.customerRepo.Create(ctx, c); err != nil {
		return nil, toAppError(err)
	}

	uc.logger.Infow("customer created", "customer_id", c.ID(), "sid", c.SID())
	return dto.CustomerMapper.ToDTO(c), nil
}

// checkContactUnique reports a readable duplicate before the unique index does.
func checkContactUnique(ctx context.Context, repo customer.Repository, email, phone string, excludeID uint) error {
	exists, err := repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return customer.ErrEmailExists
	}

	exists, err = repo.ExistsByPhone(ctx, phone, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return customer.ErrPhoneExists
	}
	return nil
}
