package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/subtrack/internal/application/assignment/dto"
	"github.com/orris-inc/subtrack/internal/application/assignment/services"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/infrastructure/metrics"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/db"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type UpdateAssignmentCommand struct {
	SID          string
	Remarks      *string
	DateAssigned *time.Time
	ClearDate    bool
}

// UpdateAssignmentUseCase edits the remark and assignment date. Existing
// ledger entries keep their dates.
type UpdateAssignmentUseCase struct {
	writer *ledgerWriter
}

func NewUpdateAssignmentUseCase(
	assignmentRepo assignment.Repository,
	catalog *services.Catalog,
	locker LedgerLocker,
	txMgr db.Transactor,
	m *metrics.Metrics,
	logger logger.Interface,
) *UpdateAssignmentUseCase {
	return &UpdateAssignmentUseCase{writer: newLedgerWriter(assignmentRepo, catalog, locker, txMgr, m, logger)}
}

func (uc *UpdateAssignmentUseCase) Execute(ctx context.Context, cmd UpdateAssignmentCommand) (*dto.MappingDTO, error) {
	today := biztime.Today()
	out, err := uc.writer.mutate(ctx, "update", cmd.SID, func(a *assignment.Assignment) error {
		return a.UpdateDetails(cmd.Remarks, cmd.DateAssigned, cmd.ClearDate, today)
	})
	if err != nil {
		return nil, err
	}
	uc.writer.logger.Infow("mapping updated", "sid", cmd.SID, "version", out.Version)
	return out, nil
}
