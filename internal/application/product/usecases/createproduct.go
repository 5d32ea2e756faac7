package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/orris-inc/subtrack/internal/application/product/dto"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/db"
	apperrors "github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type CreateProductCommand struct {
	Name             string
	Description      string
	Terms            TermsInput
	DatePurchased    *time.Time
	ReminderLeadDays *int
	// CustomerSID, when set, links the new product to that customer.
	CustomerSID string
}

type CreateProductUseCase struct {
	productRepo     product.Repository
	customerRepo    customer.Repository
	assignmentRepo  assignment.Repository
	txMgr           db.Transactor
	defaultLeadDays int
	logger          logger.Interface
}

func NewCreateProductUseCase(
	productRepo product.Repository,
	customerRepo customer.Repository,
	assignmentRepo assignment.Repository,
	txMgr db.Transactor,
	defaultLeadDays int,
	logger logger.Interface,
) *CreateProductUseCase {
	return &CreateProductUseCase{
		productRepo:     productRepo,
		customerRepo:    customerRepo,
		assignmentRepo:  assignmentRepo,
		txMgr:           txMgr,
		defaultLeadDays: defaultLeadDays,
		logger:          logger,
	}
}

func (uc *CreateProductUseCase) Execute(ctx context.Context, cmd CreateProductCommand) (*dto.ProductDTO, error) {
	if cmd.Terms.Amount == nil {
		return nil, apperrors.NewValidationError("amount is required")
	}
	terms, err := applyTerms(vo.DefaultTerms(0), cmd.Terms)
	if err != nil {
		return nil, toAppError(err)
	}

	lead := uc.defaultLeadDays
	if cmd.ReminderLeadDays != nil {
		lead = *cmd.ReminderLeadDays
	}

	today := biztime.Today()
	p, err := product.NewProduct(cmd.Name, cmd.Description, terms, cmd.DatePurchased, lead, today)
	if err != nil {
		uc.logger.Warnw("invalid create product command", "error", err)
		return nil, toAppError(err)
	}

	var c *customer.Customer
	if cmd.CustomerSID != "" {
		c, err = uc.customerRepo.GetBySID(ctx, cmd.CustomerSID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, apperrors.NewNotFoundError("Customer not found")
		}
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.productRepo.Create(txCtx, p); err != nil {
			return err
		}
		if c == nil {
			return nil
		}
		a, err := assignment.NewAssignment(c.ID(), p.ID(), "", nil, today)
		if err != nil {
			return err
		}
		if err := uc.assignmentRepo.Create(txCtx, a); err != nil && !errors.Is(err, assignment.ErrDuplicateAssignment) {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, toAppError(err)
	}

	uc.logger.Infow("product created", "product_id", p.ID(), "sid", p.SID(), "linked", c != nil)

	out := dto.ProductMapper.ToDTO(p)
	if c != nil {
		out.Customers = []*dto.CustomerSummaryDTO{dto.ToCustomerSummary(c)}
	}
	return out, nil
}
