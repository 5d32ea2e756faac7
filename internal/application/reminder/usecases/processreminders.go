package usecases

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orris-inc/subtrack/internal/application/assignment/services"
	"github.com/orris-inc/subtrack/internal/application/reminder/dto"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
	"github.com/orris-inc/subtrack/internal/domain/renewal"
	"github.com/orris-inc/subtrack/internal/infrastructure/email"
	"github.com/orris-inc/subtrack/internal/infrastructure/metrics"
	"github.com/orris-inc/subtrack/internal/infrastructure/pubsub"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/calendar"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

// dedupeTTL bounds how long a claimed (mapping, threshold) pair blocks other
// instances when the last-sent write did not land.
const dedupeTTL = 24 * time.Hour

type SweepConfig struct {
	Concurrency int
	// HorizonDays skips mappings whose expiry passed more than this many
	// days ago. Zero disables the cutoff.
	HorizonDays int
}

// ProcessRemindersUseCase sends every reminder that is due today.
type ProcessRemindersUseCase struct {
	assignmentRepo assignment.Repository
	catalog        *services.Catalog
	dedupe         Deduplicator
	dispatcher     *dispatcher
	cfg            SweepConfig
	metrics        *metrics.Metrics
	logger         logger.Interface
}

func NewProcessRemindersUseCase(
	assignmentRepo assignment.Repository,
	catalog *services.Catalog,
	dedupe Deduplicator,
	mailer email.ReminderMailer,
	publisher pubsub.ReminderEventPublisher,
	cfg SweepConfig,
	m *metrics.Metrics,
	logger logger.Interface,
) *ProcessRemindersUseCase {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &ProcessRemindersUseCase{
		assignmentRepo: assignmentRepo,
		catalog:        catalog,
		dedupe:         dedupe,
		dispatcher: &dispatcher{
			assignmentRepo: assignmentRepo,
			mailer:         mailer,
			publisher:      publisher,
			metrics:        m,
			logger:         logger,
		},
		cfg:     cfg,
		metrics: m,
		logger:  logger,
	}
}

type dueReminder struct {
	assignment *assignment.Assignment
	customer   *customer.Customer
	product    *product.Product
	expiry     time.Time
	threshold  time.Time
}

func (d dueReminder) item(result string) dto.SweepItem {
	return dto.SweepItem{
		Mapping:   d.assignment.SID(),
		Customer:  d.customer.Name(),
		Email:     d.customer.Email(),
		Product:   d.product.Name(),
		Expiry:    biztime.FormatDate(d.expiry),
		Threshold: biztime.FormatDate(d.threshold),
		Result:    result,
	}
}

// ProcessReminders runs a sweep and returns how many reminders went out.
func (uc *ProcessRemindersUseCase) ProcessReminders(ctx context.Context) (int, error) {
	report, err := uc.Execute(ctx, false)
	if err != nil {
		return 0, err
	}
	return report.Sent, nil
}

// Execute finds the due mappings and, unless dryRun is set, delivers their
// reminders in parallel.
func (uc *ProcessRemindersUseCase) Execute(ctx context.Context, dryRun bool) (report *dto.SweepReport, err error) {
	start := time.Now()
	if !dryRun {
		defer func() { uc.metrics.ObserveSweep(time.Since(start), err) }()
	}

	list, err := uc.assignmentRepo.List(ctx, assignment.Filter{})
	if err != nil {
		uc.logger.Errorw("failed to list mappings for reminder sweep", "error", err)
		return nil, err
	}
	refs, err := uc.catalog.Load(ctx, list)
	if err != nil {
		return nil, err
	}

	today := biztime.Today()
	due := uc.collectDue(list, refs, today)

	report = &dto.SweepReport{
		RanAt:   biztime.NowUTC(),
		DryRun:  dryRun,
		Checked: len(list),
		Due:     len(due),
		Items:   make([]dto.SweepItem, 0, len(due)),
	}
	if dryRun {
		for _, d := range due {
			report.Items = append(report.Items, d.item(dto.ResultDue))
		}
		return report, nil
	}

	var mu sync.Mutex
	record := func(item dto.SweepItem) {
		mu.Lock()
		defer mu.Unlock()
		switch item.Result {
		case dto.ResultSent:
			report.Sent++
		case dto.ResultFailed:
			report.Failed++
		default:
			report.Skipped++
		}
		report.Items = append(report.Items, item)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.cfg.Concurrency)
	for _, d := range due {
		g.Go(func() error {
			record(uc.deliver(gctx, d))
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(report.Items, func(i, j int) bool { return report.Items[i].Mapping < report.Items[j].Mapping })

	uc.logger.Infow("reminder sweep finished",
		"checked", report.Checked,
		"due", report.Due,
		"sent", report.Sent,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"duration", time.Since(start),
	)
	return report, ctx.Err()
}

func (uc *ProcessRemindersUseCase) collectDue(list []*assignment.Assignment, refs services.Refs, today time.Time) []dueReminder {
	var cutoff *time.Time
	if uc.cfg.HorizonDays > 0 {
		c := calendar.AddDays(today, -uc.cfg.HorizonDays)
		cutoff = &c
	}

	var due []dueReminder
	for _, a := range list {
		c, p := refs.Customer(a), refs.Product(a)
		if c == nil || p == nil {
			continue
		}
		expiry := renewal.Resolve(a, p)
		if expiry == nil {
			continue
		}
		if cutoff != nil && calendar.Before(*expiry, *cutoff) {
			continue
		}

		var lastSent *time.Time
		if ls := a.LastReminderSent(); ls != nil {
			d := biztime.DateOf(*ls)
			lastSent = &d
		}
		lead := p.ReminderLeadDays()
		if !renewal.IsReminderDue(today, expiry, lead, lastSent) {
			continue
		}
		due = append(due, dueReminder{
			assignment: a,
			customer:   c,
			product:    p,
			expiry:     *expiry,
			threshold:  renewal.ReminderThreshold(*expiry, lead),
		})
	}
	return due
}

func (uc *ProcessRemindersUseCase) deliver(ctx context.Context, d dueReminder) dto.SweepItem {
	id := d.assignment.ID()
	if d.customer.Email() == "" {
		uc.metrics.Reminder(metrics.ResultSkipped, false)
		return d.item(dto.ResultSkipped)
	}

	acquired, err := uc.dedupe.TryAcquire(ctx, id, d.threshold, dedupeTTL)
	if err != nil {
		uc.logger.Warnw("reminder dedupe check failed", "assignment_id", id, "error", err)
		item := d.item(dto.ResultFailed)
		item.Error = err.Error()
		return item
	}
	if !acquired {
		uc.logger.Debugw("reminder already claimed", "assignment_id", id)
		uc.metrics.Reminder(metrics.ResultSkipped, false)
		return d.item(dto.ResultSkipped)
	}

	delivered, err := uc.dispatcher.send(ctx, d.assignment, d.customer, d.product, d.expiry, false)
	if !delivered {
		if rerr := uc.dedupe.Release(ctx, id, d.threshold); rerr != nil {
			uc.logger.Warnw("failed to release reminder claim", "assignment_id", id, "error", rerr)
		}
		item := d.item(dto.ResultFailed)
		item.Error = err.Error()
		return item
	}

	item := d.item(dto.ResultSent)
	if err != nil {
		item.Error = err.Error()
	}
	return item
}
