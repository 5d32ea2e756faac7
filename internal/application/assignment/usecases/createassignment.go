package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/subtrack/internal/application/assignment/dto"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	apperrors "github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type CreateAssignmentCommand struct {
	CustomerSID  string
	ProductSID   string
	Remarks      string
	DateAssigned *time.Time
}

type CreateAssignmentUseCase struct {
	assignmentRepo assignment.Repository
	customerRepo   customer.Repository
	productRepo    product.Repository
	logger         logger.Interface
}

func NewCreateAssignmentUseCase(
	assignmentRepo assignment.Repository,
	customerRepo customer.Repository,
	productRepo product.Repository,
	logger logger.Interface,
) *CreateAssignmentUseCase {
	return &CreateAssignmentUseCase{
		assignmentRepo: assignmentRepo,
		customerRepo:   customerRepo,
		productRepo:    productRepo,
		logger:         logger,
	}
}

func (uc *CreateAssignmentUseCase) Execute(ctx context.Context, cmd CreateAssignmentCommand) (*dto.MappingDTO, error) {
	c, err := uc.customerRepo.GetBySID(ctx, cmd.CustomerSID)
	if err != nil {
		return nil, err
	}
	p, err := uc.productRepo.GetBySID(ctx, cmd.ProductSID)
	if err != nil {
		return nil, err
	}
	if c == nil || p == nil {
		return nil, apperrors.NewNotFoundError("Customer or Product not found")
	}

	existing, err := uc.assignmentRepo.GetByPair(ctx, c.ID(), p.ID())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, toAppError(assignment.ErrDuplicateAssignment)
	}

	today := biztime.Today()
	a, err := assignment.NewAssignment(c.ID(), p.ID(), cmd.Remarks, cmd.DateAssigned, today)
	if err != nil {
		return nil, toAppError(err)
	}
	if err := uc.assignmentRepo.Create(ctx, a); err != nil {
		return nil, toAppError(err)
	}

	uc.logger.Infow("mapping created", "assignment_id", a.ID(), "sid", a.SID(), "customer_id", c.ID(), "product_id", p.ID())
	return dto.ToMappingDTO(a, c, p, today), nil
}
