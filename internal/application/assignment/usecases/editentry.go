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

type EditEntryCommand struct {
	SID      string
	Index    int
	Amount   *float64
	Units    *int
	UnitType *string
}

// EditEntryUseCase changes one ledger entry. A duration change re-chains
// every later entry.
type EditEntryUseCase struct {
	writer *ledgerWriter
}

func NewEditEntryUseCase(
	assignmentRepo assignment.Repository,
	catalog *services.Catalog,
	locker LedgerLocker,
	txMgr db.Transactor,
	m *metrics.Metrics,
	logger logger.Interface,
) *EditEntryUseCase {
	return &EditEntryUseCase{writer: newLedgerWriter(assignmentRepo, catalog, locker, txMgr, m, logger)}
}

func (uc *EditEntryUseCase) Execute(ctx context.Context, cmd EditEntryCommand) (*dto.MappingDTO, error) {
	edit := assignment.EntryEdit{Amount: cmd.Amount, Units: cmd.Units}
	if cmd.UnitType != nil {
		unit, err := vo.ParsePeriodUnit(*cmd.UnitType)
		if err != nil {
			return nil, toAppError(err)
		}
		edit.Unit = &unit
	}
	if edit.Amount == nil && edit.Units == nil && edit.Unit == nil {
		return nil, apperrors.NewValidationError("no subscription fields to update")
	}

	out, err := uc.writer.mutate(ctx, "edit", cmd.SID, func(a *assignment.Assignment) error {
		return a.EditEntry(cmd.Index, edit)
	})
	if err != nil {
		return nil, err
	}
	uc.writer.logger.Infow("subscription updated", "sid", cmd.SID, "index", cmd.Index, "version", out.Version)
	return out, nil
}
