package usecases

import (
	"context"

	"github.com/orris-inc/subtrack/internal/application/assignment/services"
	"github.com/orris-inc/subtrack/internal/application/reminder/dto"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/renewal"
	"github.com/orris-inc/subtrack/internal/infrastructure/email"
	"github.com/orris-inc/subtrack/internal/infrastructure/metrics"
	"github.com/orris-inc/subtrack/internal/infrastructure/pubsub"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

// SendReminderUseCase sends a reminder for one mapping on demand, regardless
// of whether it is due.
type SendReminderUseCase struct {
	assignmentRepo assignment.Repository
	catalog        *services.Catalog
	dispatcher     *dispatcher
	logger         logger.Interface
}

func NewSendReminderUseCase(
	assignmentRepo assignment.Repository,
	catalog *services.Catalog,
	mailer email.ReminderMailer,
	publisher pubsub.ReminderEventPublisher,
	m *metrics.Metrics,
	logger logger.Interface,
) *SendReminderUseCase {
	return &SendReminderUseCase{
		assignmentRepo: assignmentRepo,
		catalog:        catalog,
		dispatcher: &dispatcher{
			assignmentRepo: assignmentRepo,
			mailer:         mailer,
			publisher:      publisher,
			metrics:        m,
			logger:         logger,
		},
		logger: logger,
	}
}

func (uc *SendReminderUseCase) Execute(ctx context.Context, sid string) (*dto.SendResultDTO, error) {
	a, err := uc.assignmentRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errMappingNotFound
	}

	c, p, err := uc.catalog.LoadOne(ctx, a)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errMappingNotFound
	}
	if c == nil || c.Email() == "" {
		return nil, errNoCustomerEmail
	}

	expiry := renewal.Resolve(a, p)
	if expiry == nil {
		return nil, errExpiryUnknown
	}

	delivered, err := uc.dispatcher.send(ctx, a, c, p, *expiry, true)
	if !delivered {
		uc.logger.Errorw("manual reminder failed", "assignment_id", a.ID(), "error", err)
		return nil, errSendReminderFailed
	}
	if err != nil {
		uc.logger.Warnw("manual reminder sent but not recorded", "assignment_id", a.ID(), "error", err)
	}

	return &dto.SendResultDTO{
		Success: true,
		Mapping: a.SID(),
		To:      c.Email(),
		Expiry:  biztime.FormatDate(*expiry),
	}, nil
}
