package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
	"github.com/orris-inc/subtrack/internal/infrastructure/email"
	"github.com/orris-inc/subtrack/internal/infrastructure/metrics"
	"github.com/orris-inc/subtrack/internal/infrastructure/pubsub"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

// Deduplicator guards a single send per mapping and reminder threshold across
// instances.
type Deduplicator interface {
	TryAcquire(ctx context.Context, assignmentID uint, threshold time.Time, ttl time.Duration) (bool, error)
	Release(ctx context.Context, assignmentID uint, threshold time.Time) error
}

// dispatcher delivers one reminder: mail, last-sent bookkeeping and the
// realtime event.
type dispatcher struct {
	assignmentRepo assignment.Repository
	mailer         email.ReminderMailer
	publisher      pubsub.ReminderEventPublisher
	metrics        *metrics.Metrics
	logger         logger.Interface
}

// send reports whether the mail went out. A delivered reminder whose
// bookkeeping failed returns true together with the error.
func (d *dispatcher) send(ctx context.Context, a *assignment.Assignment, c *customer.Customer, p *product.Product, expiry time.Time, manual bool) (bool, error) {
	msg := email.ReminderMessage{
		To:           c.Email(),
		CustomerName: c.Name(),
		ProductName:  p.Name(),
		Expiry:       expiry,
		Amount:       a.EffectiveTerms(p.Terms()).Amount,
		Remarks:      a.Remarks(),
	}
	event := pubsub.ReminderEvent{
		Type:          pubsub.ReminderEventSent,
		AssignmentID:  a.ID(),
		AssignmentSID: a.SID(),
		CustomerName:  c.Name(),
		ProductName:   p.Name(),
		Expiry:        biztime.FormatDate(expiry),
		Manual:        manual,
		Timestamp:     biztime.NowUTC().Unix(),
	}

	if err := d.mailer.SendReminder(ctx, msg); err != nil {
		d.logger.Warnw("reminder email failed",
			"assignment_id", a.ID(),
			"to", msg.To,
			"error", err,
		)
		d.metrics.Reminder(metrics.ResultFailed, manual)
		event.Type = pubsub.ReminderEventFailed
		d.publish(ctx, event)
		return false, fmt.Errorf("failed to send reminder: %w", err)
	}

	if err := d.assignmentRepo.MarkReminderSent(ctx, a.ID(), biztime.NowUTC()); err != nil {
		d.logger.Errorw("failed to record reminder", "assignment_id", a.ID(), "error", err)
		d.metrics.Reminder(metrics.ResultSent, manual)
		d.publish(ctx, event)
		return true, fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	d.metrics.Reminder(metrics.ResultSent, manual)
	d.publish(ctx, event)
	d.logger.Infow("reminder sent",
		"assignment_id", a.ID(),
		"to", msg.To,
		"expiry", event.Expiry,
		"manual", manual,
	)
	return true, nil
}

func (d *dispatcher) publish(ctx context.Context, event pubsub.ReminderEvent) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, event); err != nil {
		d.logger.Warnw("failed to publish reminder event", "assignment_id", event.AssignmentID, "error", err)
	}
}
