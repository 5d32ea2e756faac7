package http

import (
	"fmt"
	"time"

	assignmentServices "github.com/orris-inc/subtrack/internal/application/assignment/services"
	"github.com/orris-inc/subtrack/internal/infrastructure/auth"
	"github.com/orris-inc/subtrack/internal/infrastructure/cache"
	"github.com/orris-inc/subtrack/internal/infrastructure/email"
	"github.com/orris-inc/subtrack/internal/infrastructure/metrics"
	"github.com/orris-inc/subtrack/internal/infrastructure/permission"
	"github.com/orris-inc/subtrack/internal/infrastructure/pubsub"
	"github.com/orris-inc/subtrack/internal/infrastructure/scheduler"
	"github.com/orris-inc/subtrack/internal/infrastructure/services"
	"github.com/orris-inc/subtrack/internal/interfaces/http/middleware"
	shareddb "github.com/orris-inc/subtrack/internal/shared/db"
	"github.com/orris-inc/subtrack/internal/shared/services/markdown"
)

const (
	// ledgerLockWait bounds how long a ledger write waits for a concurrent
	// writer on the same mapping before answering 409.
	ledgerLockWait = 2 * time.Second

	// sweepTimeout caps one scheduled reminder sweep.
	sweepTimeout = 10 * time.Minute

	authRateLimit       = 20
	authRateLimitWindow = time.Minute
)

// initInfrastructure builds repositories and every infrastructure service
// the use cases depend on.
func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	c.repos = newRepositories(c.db, cfg.Cache, log)
	c.txMgr = shareddb.NewTransactionManager(c.db)
	c.catalog = assignmentServices.NewCatalog(c.repos.customerRepo, c.repos.productRepo)
	c.metrics = metrics.Default()

	// Auth
	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessTTL())
	c.hasher = auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)

	enforcer, err := permission.NewEnforcer(c.db, log)
	if err != nil {
		return fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}
	c.enforcer = enforcer

	// Redis-backed coordination
	c.ledgerLock = cache.NewLedgerLock(c.redis, cfg.Reminder.LockTTL(), ledgerLockWait)
	c.dedupe = cache.NewReminderDeduplicator(c.redis)
	c.eventBus = pubsub.NewRedisReminderEventBus(c.redis, log)

	// Reminder delivery
	c.mailer = email.NewReminderMailer(cfg.Email, cfg.Reminder.SendRetries, markdown.NewRenderer(), log)
	if !cfg.Email.Enabled() {
		log.Warnw("SMTP is not configured, reminder emails will fail until it is")
	}
	c.reminderHub = services.NewReminderHub(log, &services.ReminderHubConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	schedulerManager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	c.schedulerManager = schedulerManager

	// Middlewares
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, log)
	c.rateLimiter = middleware.NewRateLimiter(c.redis, authRateLimit, authRateLimitWindow, log)

	return nil
}
