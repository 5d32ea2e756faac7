package usecases

import (
	"context"
	"errors"

	"github.com/orris-inc/subtrack/internal/application/customer/dto"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	apperrors "github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type LinkProductCommand struct {
	CustomerSID string
	ProductSID  string
}

// LinkProductUseCase links and unlinks products. A link is a mapping without
// remarks or date; linking an already linked pair is a no-op.
type LinkProductUseCase struct {
	customerRepo   customer.Repository
	productRepo    product.Repository
	assignmentRepo assignment.Repository
	logger         logger.Interface
}

func NewLinkProductUseCase(
	customerRepo customer.Repository,
	productRepo product.Repository,
	assignmentRepo assignment.Repository,
	logger logger.Interface,
) *LinkProductUseCase {
	return &LinkProductUseCase{
		customerRepo:   customerRepo,
		productRepo:    productRepo,
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

func (uc *LinkProductUseCase) Link(ctx context.Context, cmd LinkProductCommand) (*dto.LinkDTO, error) {
	c, p, err := uc.load(ctx, cmd)
	if err != nil {
		return nil, err
	}

	existing, err := uc.assignmentRepo.GetByPair(ctx, c.ID(), p.ID())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &dto.LinkDTO{
			Customer:  dto.CustomerMapper.ToDTO(c),
			Product:   dto.ToProductSummary(p),
			MappingID: existing.SID(),
		}, nil
	}

	a, err := assignment.NewAssignment(c.ID(), p.ID(), "", nil, biztime.Today())
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	mappingSID := a.SID()
	if err := uc.assignmentRepo.Create(ctx, a); err != nil {
		if !errors.Is(err, assignment.ErrDuplicateAssignment) {
			return nil, err
		}
		// Lost a race with a concurrent link.
		winner, err := uc.assignmentRepo.GetByPair(ctx, c.ID(), p.ID())
		if err != nil || winner == nil {
			return nil, apperrors.NewDuplicateError("Mapping already exists")
		}
		mappingSID = winner.SID()
	} else {
		uc.logger.Infow("product linked", "customer_id", c.ID(), "product_id", p.ID())
	}

	return &dto.LinkDTO{
		Customer:  dto.CustomerMapper.ToDTO(c),
		Product:   dto.ToProductSummary(p),
		MappingID: mappingSID,
	}, nil
}

// Unlink removes the mapping of the pair together with its ledger.
func (uc *LinkProductUseCase) Unlink(ctx context.Context, cmd LinkProductCommand) (*dto.LinkDTO, error) {
	c, p, err := uc.load(ctx, cmd)
	if err != nil {
		return nil, err
	}

	existing, err := uc.assignmentRepo.GetByPair(ctx, c.ID(), p.ID())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := uc.assignmentRepo.Delete(ctx, existing.ID()); err != nil && !errors.Is(err, assignment.ErrAssignmentNotFound) {
			return nil, err
		}
		uc.logger.Infow("product unlinked", "customer_id", c.ID(), "product_id", p.ID())
	}

	return &dto.LinkDTO{
		Customer: dto.CustomerMapper.ToDTO(c),
		Product:  dto.ToProductSummary(p),
	}, nil
}

func (uc *LinkProductUseCase) load(ctx context.Context, cmd LinkProductCommand) (*customer.Customer, *product.Product, error) {
	c, err := uc.customerRepo.GetBySID(ctx, cmd.CustomerSID)
	if err != nil {
		return nil, nil, err
	}
	p, err := uc.productRepo.GetBySID(ctx, cmd.ProductSID)
	if err != nil {
		return nil, nil, err
	}
	if c == nil || p == nil {
		return nil, nil, apperrors.NewNotFoundError("Not found")
	}
	return c, p, nil
}
