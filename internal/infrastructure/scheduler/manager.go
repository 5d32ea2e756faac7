// Package scheduler runs periodic jobs on gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

// ReminderProcessor runs one reminder sweep and reports how many reminders went out.
type ReminderProcessor interface {
	ProcessReminders(ctx context.Context) (int, error)
}

type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a scheduler in the business timezone.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterReminderJobs sweeps every interval, starting immediately. A sweep
// still running when the next one is due causes that one to be skipped.
func (m *SchedulerManager) RegisterReminderJobs(processor ReminderProcessor, interval, timeout time.Duration) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.processReminders(ctx, processor)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("reminder", "email"),
		gocron.WithName("reminder-sweep"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered reminder jobs", "interval", interval.String())
	return nil
}

func (m *SchedulerManager) processReminders(ctx context.Context, processor ReminderProcessor) {
	startTime := biztime.NowUTC()
	m.logger.Debugw("reminder sweep started")

	sent, err := processor.ProcessReminders(ctx)
	if err != nil {
		// shutdown
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("reminder sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if sent > 0 {
		m.logger.Infow("reminder sweep finished",
			"sent", sent,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("reminder sweep found nothing due",
			"duration", time.Since(startTime),
		)
	}
}

func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to finish.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	err := m.scheduler.Shutdown()
	m.started = false
	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
