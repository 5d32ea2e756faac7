package http

import (
	"context"

	"github.com/orris-inc/subtrack/internal/interfaces/http/handlers"
)

// appVersion is overridden at build time with -ldflags "-X ...appVersion=v1.2.3".
var appVersion = "dev"

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	authHandler     *handlers.AuthHandler
	customerHandler *handlers.CustomerHandler
	productHandler  *handlers.ProductHandler
	mappingHandler  *handlers.MappingHandler
	reminderHandler *handlers.ReminderHandler
	healthHandler   *handlers.HealthHandler
}

func (c *Container) initHandlers() {
	ucs := c.ucs
	log := c.log

	customerHandler := handlers.NewCustomerHandler(
		ucs.createCustomerUC,
		ucs.updateCustomerUC,
		ucs.getCustomerUC,
		ucs.listCustomersUC,
		ucs.deleteCustomerUC,
		ucs.linkProductUC,
		log,
	)
	productHandler := handlers.NewProductHandler(
		ucs.createProductUC,
		ucs.updateProductUC,
		ucs.getProductUC,
		ucs.listProductsUC,
		ucs.deleteProductUC,
		log,
	)
	mappingHandler := handlers.NewMappingHandler(handlers.MappingUseCases{
		Create:        ucs.createAssignmentUC,
		Get:           ucs.getAssignmentUC,
		List:          ucs.listAssignmentsUC,
		Update:        ucs.updateAssignmentUC,
		UpdateDetails: ucs.updateDetailsUC,
		Delete:        ucs.deleteAssignmentUC,
		RecordPayment: ucs.recordPaymentUC,
		EditEntry:     ucs.editEntryUC,
		DeleteEntry:   ucs.deleteEntryUC,
	}, log)
	reminderHandler := handlers.NewReminderHandler(
		ucs.listRemindersUC,
		ucs.adminProductsUC,
		ucs.sendReminderUC,
		ucs.exportRenewalsUC,
		c.reminderHub,
		log,
	)
	healthChecks := map[string]handlers.Pinger{
		"database": handlers.PingFunc(c.pingDatabase),
		"redis":    handlers.PingFunc(c.pingRedis),
	}

	c.hdlrs = &allHandlers{
		authHandler:     handlers.NewAuthHandler(ucs.registerUC, ucs.loginUC, ucs.currentUserUC, log),
		customerHandler: customerHandler,
		productHandler:  productHandler,
		mappingHandler:  mappingHandler,
		reminderHandler: reminderHandler,
		healthHandler:   handlers.NewHealthHandler(healthChecks, appVersion, log),
	}
}

func (c *Container) pingDatabase(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Container) pingRedis(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}
