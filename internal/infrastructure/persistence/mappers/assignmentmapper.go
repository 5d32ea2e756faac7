package mappers

import (
	"fmt"
	"sort"

	"github.com/orris-inc/subtrack/internal/domain/assignment"
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	"github.com/orris-inc/subtrack/internal/infrastructure/persistence/models"
	"github.com/orris-inc/subtrack/internal/shared/mapper"
)

// AssignmentMapper converts mappings and their ledgers. Models passed to
// ToEntity must have Entries loaded.
type AssignmentMapper interface {
	ToEntity(model *models.AssignmentModel) (*assignment.Assignment, error)
	ToModel(entity *assignment.Assignment) *models.AssignmentModel
	ToEntities(models []*models.AssignmentModel) ([]*assignment.Assignment, error)
	EntryModels(assignmentID uint, entries []assignment.LedgerEntry) []models.LedgerEntryModel
}

type AssignmentMapperImpl struct{}

func NewAssignmentMapper() AssignmentMapper {
	return &AssignmentMapperImpl{}
}

func (m *AssignmentMapperImpl) ToEntity(model *models.AssignmentModel) (*assignment.Assignment, error) {
	if model == nil {
		return nil, nil
	}

	overrides, err := overridesFromModel(model)
	if err != nil {
		return nil, fmt.Errorf("assignment %d overrides: %w", model.ID, err)
	}

	rows := make([]models.LedgerEntryModel, len(model.Entries))
	copy(rows, model.Entries)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Ordinal < rows[j].Ordinal })

	entries := make([]assignment.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		unit, err := vo.ParsePeriodUnit(row.DurationUnit)
		if err != nil {
			return nil, fmt.Errorf("assignment %d entry %d: %w", model.ID, row.Ordinal, err)
		}
		entry, err := assignment.ReconstructLedgerEntry(
			row.Ordinal,
			row.Amount,
			row.DurationUnits,
			unit,
			fromDate(row.StartDate),
			fromDate(row.EndDate),
			row.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("assignment %d entry %d: %w", model.ID, row.Ordinal, err)
		}
		entries = append(entries, entry)
	}

	entity, err := assignment.ReconstructAssignment(
		model.ID,
		model.SID,
		model.CustomerID,
		model.ProductID,
		model.Remarks,
		fromDatePtr(model.DateAssigned),
		overrides,
		entries,
		model.LastReminderSentAt,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct assignment entity: %w", err)
	}
	return entity, nil
}

func (m *AssignmentMapperImpl) ToModel(entity *assignment.Assignment) *models.AssignmentModel {
	if entity == nil {
		return nil
	}
	o := entity.Overrides()
	model := &models.AssignmentModel{
		ID:                  entity.ID(),
		SID:                 entity.SID(),
		CustomerID:          entity.CustomerID(),
		ProductID:           entity.ProductID(),
		Remarks:             entity.Remarks(),
		DateAssigned:        toDatePtr(entity.DateAssigned()),
		OverrideAmount:      o.Amount,
		OverridePeriodCount: o.Count,
		LastReminderSentAt:  entity.LastReminderSent(),
		Version:             entity.Version(),
		CreatedAt:           entity.CreatedAt(),
		UpdatedAt:           entity.UpdatedAt(),
	}
	if o.BillingType != nil {
		s := o.BillingType.String()
		model.OverrideBillingType = &s
	}
	if o.Source != nil {
		s := o.Source.String()
		model.OverrideSource = &s
	}
	if o.Period != nil {
		s := o.Period.String()
		model.OverridePeriodUnit = &s
	}
	model.Entries = m.EntryModels(entity.ID(), entity.Entries())
	return model
}

func (m *AssignmentMapperImpl) EntryModels(assignmentID uint, entries []assignment.LedgerEntry) []models.LedgerEntryModel {
	return mapper.MapSlice(entries, func(e assignment.LedgerEntry) models.LedgerEntryModel {
		return models.LedgerEntryModel{
			AssignmentID:  assignmentID,
			Ordinal:       e.Ordinal(),
			Amount:        e.Amount(),
			DurationUnits: e.Duration().Units(),
			DurationUnit:  e.Duration().Unit().String(),
			StartDate:     toDate(e.Start()),
			EndDate:       toDate(e.End()),
			RecordedAt:    e.RecordedAt(),
		}
	})
}

func (m *AssignmentMapperImpl) ToEntities(list []*models.AssignmentModel) ([]*assignment.Assignment, error) {
	return mapper.MapSlicePtrWithID(list, m.ToEntity, func(model *models.AssignmentModel) uint {
		return model.ID
	})
}

func overridesFromModel(model *models.AssignmentModel) (vo.TermsOverride, error) {
	o := vo.TermsOverride{
		Amount: model.OverrideAmount,
		Count:  model.OverridePeriodCount,
	}
	if model.OverrideBillingType != nil {
		bt, err := vo.ParseBillingType(*model.OverrideBillingType)
		if err != nil {
			return o, err
		}
		o.BillingType = &bt
	}
	if model.OverrideSource != nil {
		src, err := vo.ParseSource(*model.OverrideSource)
		if err != nil {
			return o, err
		}
		o.Source = &src
	}
	if model.OverridePeriodUnit != nil {
		unit, err := vo.ParsePeriodUnit(*model.OverridePeriodUnit)
		if err != nil {
			return o, err
		}
		o.Period = &unit
	}
	return o, nil
}
