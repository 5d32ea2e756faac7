package http

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	assignmentServices "github.com/orris-inc/subtrack/internal/application/assignment/services"
	reminderUsecases "github.com/orris-inc/subtrack/internal/application/reminder/usecases"
	"github.com/orris-inc/subtrack/internal/infrastructure/auth"
	"github.com/orris-inc/subtrack/internal/infrastructure/cache"
	"github.com/orris-inc/subtrack/internal/infrastructure/config"
	"github.com/orris-inc/subtrack/internal/infrastructure/email"
	"github.com/orris-inc/subtrack/internal/infrastructure/metrics"
	"github.com/orris-inc/subtrack/internal/infrastructure/permission"
	"github.com/orris-inc/subtrack/internal/infrastructure/pubsub"
	"github.com/orris-inc/subtrack/internal/infrastructure/scheduler"
	"github.com/orris-inc/subtrack/internal/infrastructure/services"
	"github.com/orris-inc/subtrack/internal/interfaces/http/middleware"
	shareddb "github.com/orris-inc/subtrack/internal/shared/db"
	"github.com/orris-inc/subtrack/internal/shared/goroutine"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

// Container holds the infrastructure, repositories, use cases, handlers and
// background services of one process. Shutdown stops everything it started.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter

	jwtSvc     *auth.JWTService
	hasher     *auth.BcryptPasswordHasher
	txMgr      *shareddb.TransactionManager
	catalog    *assignmentServices.Catalog
	ledgerLock *cache.LedgerLock
	dedupe     *cache.ReminderDeduplicator
	mailer     email.ReminderMailer
	enforcer   *permission.Enforcer
	metrics    *metrics.Metrics

	schedulerManager *scheduler.SchedulerManager
	reminderHub      *services.ReminderHub

	// Cross-instance relay of reminder events to websocket clients
	eventBus       *pubsub.RedisReminderEventBus
	eventBusCancel context.CancelFunc
	eventBusMu     sync.Mutex

	shutdownOnce sync.Once
}

// NewContainer wires every component against an open database and Redis
// client. Nothing runs in the background until StartBackground is called.
func NewContainer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initUseCases()
	c.initHandlers()

	return c, nil
}

// Engine returns the gin engine. Routes are registered by SetupRoutes.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// ReminderSweep is the use case the scheduler, the worker and the remind
// command share.
func (c *Container) ReminderSweep() *reminderUsecases.ProcessRemindersUseCase {
	return c.ucs.processRemindersUC
}

// RenewalExport backs the export command.
func (c *Container) RenewalExport() *reminderUsecases.ExportRenewalsUseCase {
	return c.ucs.exportRenewalsUC
}

// StartBackground registers the reminder sweep with the scheduler, starts it
// and begins relaying reminder events from Redis to websocket clients.
func (c *Container) StartBackground(ctx context.Context) error {
	if err := c.StartScheduler(); err != nil {
		return err
	}
	c.startEventRelay(ctx)
	return nil
}

// StartScheduler runs only the reminder sweep, for processes without HTTP.
func (c *Container) StartScheduler() error {
	if err := c.schedulerManager.RegisterReminderJobs(
		c.ucs.processRemindersUC,
		c.cfg.Reminder.SweepInterval(),
		sweepTimeout,
	); err != nil {
		return err
	}
	c.schedulerManager.Start()
	return nil
}

func (c *Container) startEventRelay(ctx context.Context) {
	c.eventBusMu.Lock()
	defer c.eventBusMu.Unlock()

	if c.eventBusCancel != nil {
		return
	}
	relayCtx, cancel := context.WithCancel(ctx)
	c.eventBusCancel = cancel
	goroutine.SafeGo(c.log, "reminder-event-relay", func() {
		c.eventBus.Run(relayCtx, c.reminderHub.HandleEvent)
	})
}

// Shutdown stops background work in reverse start order. It is safe to call
// more than once. The database and Redis clients belong to the caller.
func (c *Container) Shutdown() {
	c.shutdownOnce.Do(func() {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Warnw("failed to stop scheduler", "error", err)
		}

		c.eventBusMu.Lock()
		if c.eventBusCancel != nil {
			c.eventBusCancel()
			c.eventBusCancel = nil
		}
		c.eventBusMu.Unlock()

		c.reminderHub.Shutdown()
		c.log.Infow("container shut down")
	})
}
