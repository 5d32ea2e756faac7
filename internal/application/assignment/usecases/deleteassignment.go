package usecases

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/assignment/dto"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type DeleteAssignmentUseCase struct {
	assignmentRepo assignment.Repository
	locker         LedgerLocker
	logger         logger.Interface
}

func NewDeleteAssignmentUseCase(assignmentRepo assignment.Repository, locker LedgerLocker, logger logger.Interface) *DeleteAssignmentUseCase {
	return &DeleteAssignmentUseCase{assignmentRepo: assignmentRepo, locker: locker, logger: logger}
}

// Execute removes the mapping together with its ledger.
func (uc *DeleteAssignmentUseCase) Execute(ctx context.Context, sid string) (*dto.DeletedDTO, error) {
	a, err := uc.assignmentRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errMappingNotFound
	}

	release, err := uc.locker.Acquire(ctx, a.ID())
	if err != nil {
		return nil, errLedgerBusy
	}
	defer release()

	if err := uc.assignmentRepo.Delete(ctx, a.ID()); err != nil {
		return nil, toAppError(err)
	}

	uc.logger.Infow("mapping deleted", "assignment_id", a.ID(), "sid", a.SID())
	return &dto.DeletedDTO{Success: true, ID: a.SID()}, nil
}
