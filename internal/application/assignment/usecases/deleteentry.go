package usecases

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/assignment/dto"
	"github.com/orris-inc/subtrack/internal/application/assignment/services"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/infrastructure/metrics"
	"github.com/orris-inc/subtrack/internal/shared/db"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type DeleteEntryCommand struct {
	SID   string
	Index int
}

type DeleteEntryUseCase struct {
	writer *ledgerWriter
}

func NewDeleteEntryUseCase(
	assignmentRepo assignment.Repository,
	catalog *services.Catalog,
	locker LedgerLocker,
	txMgr db.Transactor,
	m *metrics.Metrics,
	logger logger.Interface,
) *DeleteEntryUseCase {
	return &DeleteEntryUseCase{writer: newLedgerWriter(assignmentRepo, catalog, locker, txMgr, m, logger)}
}

func (uc *DeleteEntryUseCase) Execute(ctx context.Context, cmd DeleteEntryCommand) (*dto.MappingDTO, error) {
	out, err := uc.writer.mutate(ctx, "delete_entry", cmd.SID, func(a *assignment.Assignment) error {
		return a.DeleteEntry(cmd.Index)
	})
	if err != nil {
		return nil, err
	}
	uc.writer.logger.Infow("subscription deleted", "sid", cmd.SID, "index", cmd.Index, "remaining", len(out.Subscriptions))
	return out, nil
}
