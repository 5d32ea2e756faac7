package usecases

import (
	"context"
	"sort"

	assignmentdto "github.com/orris-inc/subtrack/internal/application/assignment/dto"
	"github.com/orris-inc/subtrack/internal/application/assignment/services"
	"github.com/orris-inc/subtrack/internal/application/reminder/dto"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/renewal"
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	apperrors "github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

const DefaultWindowDays = 30

type ListRemindersQuery struct {
	Days        *int
	CustomerSID string
	BillingType string
	Source      string
}

// ListRemindersUseCase lists the mappings expiring within the next N days.
type ListRemindersUseCase struct {
	assignmentRepo assignment.Repository
	customerRepo   customer.Repository
	catalog        *services.Catalog
	logger         logger.Interface
}

func NewListRemindersUseCase(
	assignmentRepo assignment.Repository,
	customerRepo customer.Repository,
	catalog *services.Catalog,
	logger logger.Interface,
) *ListRemindersUseCase {
	return &ListRemindersUseCase{
		assignmentRepo: assignmentRepo,
		customerRepo:   customerRepo,
		catalog:        catalog,
		logger:         logger,
	}
}

func (uc *ListRemindersUseCase) Execute(ctx context.Context, query ListRemindersQuery) (*dto.WindowDTO, error) {
	days := DefaultWindowDays
	if query.Days != nil {
		days = *query.Days
	}
	if days < 0 {
		return nil, apperrors.NewValidationError("days must not be negative")
	}

	var billingType *vo.BillingType
	if query.BillingType != "" {
		bt, err := vo.ParseBillingType(query.BillingType)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		billingType = &bt
	}
	var source *vo.Source
	if query.Source != "" {
		s, err := vo.ParseSource(query.Source)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		source = &s
	}

	out := &dto.WindowDTO{Days: days, Reminders: []*dto.ReminderDTO{}}

	var filter assignment.Filter
	if query.CustomerSID != "" {
		c, err := uc.customerRepo.GetBySID(ctx, query.CustomerSID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return out, nil
		}
		id := c.ID()
		filter.CustomerID = &id
	}

	list, err := uc.assignmentRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list mappings for reminders", "error", err)
		return nil, err
	}
	refs, err := uc.catalog.Load(ctx, list)
	if err != nil {
		return nil, err
	}

	today := biztime.Today()
	for _, a := range list {
		c, p := refs.Customer(a), refs.Product(a)
		if c == nil || p == nil {
			continue
		}
		terms := a.EffectiveTerms(p.Terms())
		if billingType != nil && terms.BillingType != *billingType {
			continue
		}
		if source != nil && terms.Source != *source {
			continue
		}
		expiry := renewal.Resolve(a, p)
		if !renewal.InWindow(today, expiry, days) {
			continue
		}
		cls := renewal.ClassifyDue(today, expiry)
		out.Reminders = append(out.Reminders, &dto.ReminderDTO{
			Mapping:   a.SID(),
			Customer:  assignmentdto.ToCustomerRef(c),
			Product:   assignmentdto.ToProductRef(p),
			Expiry:    biztime.FormatDate(*expiry),
			DaysLeft:  renewal.DaysUntil(today, *expiry),
			Bucket:    cls.Bucket.String(),
			Remaining: cls.Remaining,
			Remarks:   a.Remarks(),
		})
	}

	sort.SliceStable(out.Reminders, func(i, j int) bool {
		return out.Reminders[i].Expiry < out.Reminders[j].Expiry
	})
	out.Count = len(out.Reminders)
	return out, nil
}
