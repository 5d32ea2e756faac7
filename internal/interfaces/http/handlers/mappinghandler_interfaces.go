package handlers

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/assignment/dto"
	"github.com/orris-inc/subtrack/internal/application/assignment/usecases"
)

// Use case interfaces for MappingHandler

type createMappingUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateAssignmentCommand) (*dto.MappingDTO, error)
}

type getMappingUseCase interface {
	Execute(ctx context.Context, sid string) (*dto.MappingDTO, error)
}

type listMappingsUseCase interface {
	Execute(ctx context.Context, query usecases.ListAssignmentsQuery) (*usecases.ListAssignmentsResult, error)
}

type updateMappingUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateAssignmentCommand) (*dto.MappingDTO, error)
}

type updateMappingDetailsUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateDetailsCommand) (*dto.MappingDTO, error)
}

type deleteMappingUseCase interface {
	Execute(ctx context.Context, sid string) (*dto.DeletedDTO, error)
}

type recordPaymentUseCase interface {
	Execute(ctx context.Context, cmd usecases.RecordPaymentCommand) (*dto.MappingDTO, error)
}

type editEntryUseCase interface {
	Execute(ctx context.Context, cmd usecases.EditEntryCommand) (*dto.MappingDTO, error)
}

type deleteEntryUseCase interface {
	Execute(ctx context.Context, cmd usecases.DeleteEntryCommand) (*dto.MappingDTO, error)
}

// MappingUseCases groups the use cases behind MappingHandler.
type MappingUseCases struct {
	Create        createMappingUseCase
	Get           getMappingUseCase
	List          listMappingsUseCase
	Update        updateMappingUseCase
	UpdateDetails updateMappingDetailsUseCase
	Delete        deleteMappingUseCase
	RecordPayment recordPaymentUseCase
	EditEntry     editEntryUseCase
	DeleteEntry   deleteEntryUseCase
}
