package usecases

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/assignment/dto"
	"github.com/orris-inc/subtrack/internal/application/assignment/services"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type GetAssignmentUseCase struct {
	assignmentRepo assignment.Repository
	catalog        *services.Catalog
	logger         logger.Interface
}

func NewGetAssignmentUseCase(assignmentRepo assignment.Repository, catalog *services.Catalog, logger logger.Interface) *GetAssignmentUseCase {
	return &GetAssignmentUseCase{assignmentRepo: assignmentRepo, catalog: catalog, logger: logger}
}

func (uc *GetAssignmentUseCase) Execute(ctx context.Context, sid string) (*dto.MappingDTO, error) {
	a, err := uc.assignmentRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errMappingNotFound
	}

	c, p, err := uc.catalog.LoadOne(ctx, a)
	if err != nil {
		uc.logger.Errorw("failed to load mapping references", "assignment_id", a.ID(), "error", err)
		return nil, err
	}
	return dto.ToMappingDTO(a, c, p, biztime.Today()), nil
}
