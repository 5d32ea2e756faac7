package usecases

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/assignment/dto"
	"github.com/orris-inc/subtrack/internal/application/assignment/services"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	"github.com/orris-inc/subtrack/internal/infrastructure/metrics"
	"github.com/orris-inc/subtrack/internal/shared/db"
	apperrors "github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

// UpdateDetailsCommand sets per-mapping term overrides. Nil fields keep the
// current override.
type UpdateDetailsCommand struct {
	SID         string
	Amount      *float64
	BillingType *string
	Source      *string
	Count       *int
	Period      *string
}

func (cmd UpdateDetailsCommand) toOverride() (vo.TermsOverride, error) {
	o := vo.TermsOverride{Amount: cmd.Amount, Count: cmd.Count}
	if cmd.BillingType != nil {
		bt, err := vo.ParseBillingType(*cmd.BillingType)
		if err != nil {
			return vo.TermsOverride{}, err
		}
		o.BillingType = &bt
	}
	if cmd.Source != nil {
		s, err := vo.ParseSource(*cmd.Source)
		if err != nil {
			return vo.TermsOverride{}, err
		}
		o.Source = &s
	}
	if cmd.Period != nil {
		pu, err := vo.ParsePeriodUnit(*cmd.Period)
		if err != nil {
			return vo.TermsOverride{}, err
		}
		o.Period = &pu
	}
	return o, nil
}

type UpdateDetailsUseCase struct {
	writer *ledgerWriter
}

func NewUpdateDetailsUseCase(
	assignmentRepo assignment.Repository,
	catalog *services.Catalog,
	locker LedgerLocker,
	txMgr db.Transactor,
	m *metrics.Metrics,
	logger logger.Interface,
) *UpdateDetailsUseCase {
	return &UpdateDetailsUseCase{writer: newLedgerWriter(assignmentRepo, catalog, locker, txMgr, m, logger)}
}

func (uc *UpdateDetailsUseCase) Execute(ctx context.Context, cmd UpdateDetailsCommand) (*dto.MappingDTO, error) {
	override, err := cmd.toOverride()
	if err != nil {
		return nil, toAppError(err)
	}
	if override.IsEmpty() {
		return nil, apperrors.NewValidationError("no details to update")
	}

	out, err := uc.writer.mutate(ctx, "details", cmd.SID, func(a *assignment.Assignment) error {
		return a.MergeOverrides(override)
	})
	if err != nil {
		return nil, err
	}
	uc.writer.logger.Infow("mapping details updated", "sid", cmd.SID, "version", out.Version)
	return out, nil
}
