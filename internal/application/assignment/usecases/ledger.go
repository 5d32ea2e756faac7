package usecases

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/assignment/dto"
	"github.com/orris-inc/subtrack/internal/application/assignment/services"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/infrastructure/metrics"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/db"
	apperrors "github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

// LedgerLocker serializes writers of one mapping's ledger.
type LedgerLocker interface {
	Acquire(ctx context.Context, assignmentID uint) (func(), error)
}

var errLedgerBusy = apperrors.NewConflictError("Mapping is being modified, please retry")

// ledgerWriter runs a mutation against the latest stored state of a mapping
// while holding its ledger lock.
type ledgerWriter struct {
	assignmentRepo assignment.Repository
	catalog        *services.Catalog
	locker         LedgerLocker
	txMgr          db.Transactor
	metrics        *metrics.Metrics
	logger         logger.Interface
}

func newLedgerWriter(
	assignmentRepo assignment.Repository,
	catalog *services.Catalog,
	locker LedgerLocker,
	txMgr db.Transactor,
	m *metrics.Metrics,
	logger logger.Interface,
) *ledgerWriter {
	return &ledgerWriter{
		assignmentRepo: assignmentRepo,
		catalog:        catalog,
		locker:         locker,
		txMgr:          txMgr,
		metrics:        m,
		logger:         logger,
	}
}

func (w *ledgerWriter) mutate(ctx context.Context, op, sid string, fn func(a *assignment.Assignment) error) (*dto.MappingDTO, error) {
	out, err := w.run(ctx, sid, fn)
	w.metrics.LedgerOp(op, err)
	if err != nil {
		return nil, toAppError(err)
	}
	return out, nil
}

func (w *ledgerWriter) run(ctx context.Context, sid string, fn func(a *assignment.Assignment) error) (*dto.MappingDTO, error) {
	current, err := w.assignmentRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, assignment.ErrAssignmentNotFound
	}

	release, err := w.locker.Acquire(ctx, current.ID())
	if err != nil {
		w.logger.Warnw("ledger lock not acquired", "assignment_id", current.ID(), "error", err)
		return nil, errLedgerBusy
	}
	defer release()

	var saved *assignment.Assignment
	err = w.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		// Reload under the lock.
		a, err := w.assignmentRepo.GetByID(txCtx, current.ID())
		if err != nil {
			return err
		}
		if a == nil {
			return assignment.ErrAssignmentNotFound
		}
		if err := fn(a); err != nil {
			return err
		}
		if err := w.assignmentRepo.Update(txCtx, a); err != nil {
			return err
		}
		saved = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	c, p, err := w.catalog.LoadOne(ctx, saved)
	if err != nil {
		return nil, err
	}
	return dto.ToMappingDTO(saved, c, p, biztime.Today()), nil
}
