package http

import (
	assignmentUsecases "github.com/orris-inc/subtrack/internal/application/assignment/usecases"
	customerUsecases "github.com/orris-inc/subtrack/internal/application/customer/usecases"
	productUsecases "github.com/orris-inc/subtrack/internal/application/product/usecases"
	reminderUsecases "github.com/orris-inc/subtrack/internal/application/reminder/usecases"
	userUsecases "github.com/orris-inc/subtrack/internal/application/user/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// User / Auth
	registerUC    *userUsecases.RegisterUseCase
	loginUC       *userUsecases.LoginUseCase
	currentUserUC *userUsecases.GetCurrentUserUseCase

	// Customer
	createCustomerUC *customerUsecases.CreateCustomerUseCase
	updateCustomerUC *customerUsecases.UpdateCustomerUseCase
	getCustomerUC    *customerUsecases.GetCustomerUseCase
	listCustomersUC  *customerUsecases.ListCustomersUseCase
	deleteCustomerUC *customerUsecases.DeleteCustomerUseCase
	linkProductUC    *customerUsecases.LinkProductUseCase

	// Product
	createProductUC *productUsecases.CreateProductUseCase
	updateProductUC *productUsecases.UpdateProductUseCase
	getProductUC    *productUsecases.GetProductUseCase
	listProductsUC  *productUsecases.ListProductsUseCase
	deleteProductUC *productUsecases.DeleteProductUseCase

	// Mapping and ledger
	createAssignmentUC *assignmentUsecases.CreateAssignmentUseCase
	getAssignmentUC    *assignmentUsecases.GetAssignmentUseCase
	listAssignmentsUC  *assignmentUsecases.ListAssignmentsUseCase
	updateAssignmentUC *assignmentUsecases.UpdateAssignmentUseCase
	updateDetailsUC    *assignmentUsecases.UpdateDetailsUseCase
	deleteAssignmentUC *assignmentUsecases.DeleteAssignmentUseCase
	recordPaymentUC    *assignmentUsecases.RecordPaymentUseCase
	editEntryUC        *assignmentUsecases.EditEntryUseCase
	deleteEntryUC      *assignmentUsecases.DeleteEntryUseCase

	// Reminders and reports
	processRemindersUC *reminderUsecases.ProcessRemindersUseCase
	sendReminderUC     *reminderUsecases.SendReminderUseCase
	listRemindersUC    *reminderUsecases.ListRemindersUseCase
	adminProductsUC    *reminderUsecases.ListAdminProductsUseCase
	exportRenewalsUC   *reminderUsecases.ExportRenewalsUseCase
}

func (c *Container) initUseCases() {
	log := c.log
	r := c.repos
	sweepCfg := reminderUsecases.SweepConfig{
		Concurrency: c.cfg.Reminder.Concurrency,
		HorizonDays: c.cfg.Reminder.HorizonDays,
	}

	c.ucs = &allUseCases{
		registerUC:    userUsecases.NewRegisterUseCase(r.userRepo, c.hasher, log),
		loginUC:       userUsecases.NewLoginUseCase(r.userRepo, c.hasher, c.jwtSvc, c.cfg.Auth.Admin, log),
		currentUserUC: userUsecases.NewGetCurrentUserUseCase(r.userRepo, log),

		createCustomerUC: customerUsecases.NewCreateCustomerUseCase(r.customerRepo, log),
		updateCustomerUC: customerUsecases.NewUpdateCustomerUseCase(r.customerRepo, log),
		getCustomerUC:    customerUsecases.NewGetCustomerUseCase(r.customerRepo, r.assignmentRepo, r.productRepo, log),
		listCustomersUC:  customerUsecases.NewListCustomersUseCase(r.customerRepo, log),
		deleteCustomerUC: customerUsecases.NewDeleteCustomerUseCase(r.customerRepo, r.assignmentRepo, c.txMgr, log),
		linkProductUC:    customerUsecases.NewLinkProductUseCase(r.customerRepo, r.productRepo, r.assignmentRepo, log),

		createProductUC: productUsecases.NewCreateProductUseCase(r.productRepo, r.customerRepo, r.assignmentRepo, c.txMgr, c.cfg.Reminder.DefaultLeadDays, log),
		updateProductUC: productUsecases.NewUpdateProductUseCase(r.productRepo, log),
		getProductUC:    productUsecases.NewGetProductUseCase(r.productRepo, r.assignmentRepo, r.customerRepo, log),
		listProductsUC:  productUsecases.NewListProductsUseCase(r.productRepo, log),
		deleteProductUC: productUsecases.NewDeleteProductUseCase(r.productRepo, r.assignmentRepo, c.txMgr, log),

		createAssignmentUC: assignmentUsecases.NewCreateAssignmentUseCase(r.assignmentRepo, r.customerRepo, r.productRepo, log),
		getAssignmentUC:    assignmentUsecases.NewGetAssignmentUseCase(r.assignmentRepo, c.catalog, log),
		listAssignmentsUC:  assignmentUsecases.NewListAssignmentsUseCase(r.assignmentRepo, r.customerRepo, r.productRepo, c.catalog, log),
		updateAssignmentUC: assignmentUsecases.NewUpdateAssignmentUseCase(r.assignmentRepo, c.catalog, c.ledgerLock, c.txMgr, c.metrics, log),
		updateDetailsUC:    assignmentUsecases.NewUpdateDetailsUseCase(r.assignmentRepo, c.catalog, c.ledgerLock, c.txMgr, c.metrics, log),
		deleteAssignmentUC: assignmentUsecases.NewDeleteAssignmentUseCase(r.assignmentRepo, c.ledgerLock, log),
		recordPaymentUC:    assignmentUsecases.NewRecordPaymentUseCase(r.assignmentRepo, c.catalog, c.ledgerLock, c.txMgr, c.metrics, log),
		editEntryUC:        assignmentUsecases.NewEditEntryUseCase(r.assignmentRepo, c.catalog, c.ledgerLock, c.txMgr, c.metrics, log),
		deleteEntryUC:      assignmentUsecases.NewDeleteEntryUseCase(r.assignmentRepo, c.catalog, c.ledgerLock, c.txMgr, c.metrics, log),

		processRemindersUC: reminderUsecases.NewProcessRemindersUseCase(r.assignmentRepo, c.catalog, c.dedupe, c.mailer, c.eventBus, sweepCfg, c.metrics, log),
		sendReminderUC:     reminderUsecases.NewSendReminderUseCase(r.assignmentRepo, c.catalog, c.mailer, c.eventBus, c.metrics, log),
		listRemindersUC:    reminderUsecases.NewListRemindersUseCase(r.assignmentRepo, r.customerRepo, c.catalog, log),
		adminProductsUC:    reminderUsecases.NewListAdminProductsUseCase(r.productRepo, log),
		exportRenewalsUC:   reminderUsecases.NewExportRenewalsUseCase(r.assignmentRepo, c.catalog, log),
	}
}
