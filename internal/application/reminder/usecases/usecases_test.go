package usecases

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/subtrack/internal/application/assignment/services"
	"github.com/orris-inc/subtrack/internal/application/reminder/dto"
	"github.com/orris-inc/subtrack/internal/application/testutil"
	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	"github.com/orris-inc/subtrack/internal/infrastructure/email"
	"github.com/orris-inc/subtrack/internal/infrastructure/metrics"
	"github.com/orris-inc/subtrack/internal/infrastructure/pubsub"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/calendar"
	"github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type fixture struct {
	customers   *testutil.MockCustomerRepository
	products    *testutil.MockProductRepository
	assignments *testutil.MockAssignmentRepository
	dedupe      *testutil.MockDeduplicator
	mailer      *testutil.MockMailer
	publisher   *testutil.MockPublisher
	catalog     *services.Catalog
	metrics     *metrics.Metrics
	today       time.Time
}

func newFixture() *fixture {
	f := &fixture{
		customers:   testutil.NewMockCustomerRepository(),
		products:    testutil.NewMockProductRepository(),
		assignments: testutil.NewMockAssignmentRepository(),
		dedupe:      testutil.NewMockDeduplicator(),
		mailer:      &testutil.MockMailer{},
		publisher:   &testutil.MockPublisher{},
		metrics:     metrics.MustNew(prometheus.NewRegistry()),
		today:       biztime.Today(),
	}
	f.catalog = services.NewCatalog(f.customers, f.products)
	return f
}

func (f *fixture) sweeper() *ProcessRemindersUseCase {
	return NewProcessRemindersUseCase(
		f.assignments, f.catalog, f.dedupe, f.mailer, f.publisher,
		SweepConfig{Concurrency: 4}, f.metrics, logger.NewNopLogger(),
	)
}

func (f *fixture) customer(t *testing.T, n int) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(fmt.Sprintf("Customer %d", n), fmt.Sprintf("c%d@example.test", n), fmt.Sprintf("90000000%02d", n))
	require.NoError(t, err)
	require.NoError(t, f.customers.Create(context.Background(), c))
	return c
}

func (f *fixture) product(t *testing.T, name string, terms vo.Terms, purchased *time.Time) *product.Product {
	t.Helper()
	p, err := product.NewProduct(name, "", terms, purchased, 15, f.today)
	require.NoError(t, err)
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) assign(t *testing.T, c *customer.Customer, p *product.Product, assigned time.Time) *assignment.Assignment {
	t.Helper()
	a, err := assignment.NewAssignment(c.ID(), p.ID(), "", &assigned, f.today)
	require.NoError(t, err)
	require.NoError(t, f.assignments.Create(context.Background(), a))
	return a
}

func yearly(amount float64) vo.Terms {
	t := vo.DefaultTerms(amount)
	t.BillingType = vo.BillingTypeRecurring
	t.Period = vo.PeriodYears
	return t
}

func TestProcessRemindersSendsOncePerThreshold(t *testing.T) {
	f := newFixture()
	due := f.assign(t, f.customer(t, 1), f.product(t, "Setup", vo.DefaultTerms(50), nil), calendar.AddDays(f.today, -2))
	f.assign(t, f.customer(t, 2), f.product(t, "Domain", yearly(20), nil), calendar.AddDays(f.today, -10))

	f.mailer.On("SendReminder", mock.Anything, mock.MatchedBy(func(m email.ReminderMessage) bool {
		return m.To == "c1@example.test" && m.ProductName == "Setup" && m.Amount == 50
	})).Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e pubsub.ReminderEvent) bool {
		return e.Type == pubsub.ReminderEventSent && e.AssignmentSID == due.SID() && !e.Manual
	})).Return(nil).Once()

	uc := f.sweeper()
	sent, err := uc.ProcessReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	stored, err := f.assignments.GetByID(context.Background(), due.ID())
	require.NoError(t, err)
	require.NotNil(t, stored.LastReminderSent())

	report, err := uc.Execute(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)
	assert.Zero(t, report.Due)
	assert.Zero(t, report.Sent)

	f.mailer.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestProcessRemindersFailureReleasesClaim(t *testing.T) {
	f := newFixture()
	a := f.assign(t, f.customer(t, 1), f.product(t, "Setup", vo.DefaultTerms(50), nil), calendar.AddDays(f.today, -1))

	f.mailer.On("SendReminder", mock.Anything, mock.Anything).Return(email.ErrEmailServiceNotConfigured).Once()
	f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e pubsub.ReminderEvent) bool {
		return e.Type == pubsub.ReminderEventFailed
	})).Return(nil).Once()

	report, err := f.sweeper().Execute(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Due)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Items, 1)
	assert.Equal(t, dto.ResultFailed, report.Items[0].Result)
	assert.NotEmpty(t, report.Items[0].Error)

	stored, err := f.assignments.GetByID(context.Background(), a.ID())
	require.NoError(t, err)
	assert.Nil(t, stored.LastReminderSent())

	expiry := calendar.AddDays(f.today, -1)
	ok, err := f.dedupe.TryAcquire(context.Background(), a.ID(), calendar.AddDays(expiry, -15), time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProcessRemindersSkipsClaimedThreshold(t *testing.T) {
	f := newFixture()
	assigned := calendar.AddDays(f.today, -3)
	a := f.assign(t, f.customer(t, 1), f.product(t, "Setup", vo.DefaultTerms(50), nil), assigned)

	_, err := f.dedupe.TryAcquire(context.Background(), a.ID(), calendar.AddDays(assigned, -15), time.Hour)
	require.NoError(t, err)

	report, err := f.sweeper().Execute(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	f.mailer.AssertNotCalled(t, "SendReminder", mock.Anything, mock.Anything)
}

func TestProcessRemindersDryRun(t *testing.T) {
	f := newFixture()
	f.assign(t, f.customer(t, 1), f.product(t, "Setup", vo.DefaultTerms(50), nil), calendar.AddDays(f.today, -2))

	report, err := f.sweeper().Execute(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Due)
	require.Len(t, report.Items, 1)
	assert.Equal(t, dto.ResultDue, report.Items[0].Result)
	assert.Equal(t, "Customer 1", report.Items[0].Customer)
	f.mailer.AssertNotCalled(t, "SendReminder", mock.Anything, mock.Anything)
}

func TestProcessRemindersHorizon(t *testing.T) {
	f := newFixture()
	f.assign(t, f.customer(t, 1), f.product(t, "Setup", vo.DefaultTerms(50), nil), calendar.AddDays(f.today, -400))

	uc := NewProcessRemindersUseCase(
		f.assignments, f.catalog, f.dedupe, f.mailer, f.publisher,
		SweepConfig{Concurrency: 1, HorizonDays: 365}, f.metrics, logger.NewNopLogger(),
	)
	report, err := uc.Execute(context.Background(), true)
	require.NoError(t, err)
	assert.Zero(t, report.Due)
}

func TestSendReminder(t *testing.T) {
	f := newFixture()
	c := f.customer(t, 1)
	a := f.assign(t, c, f.product(t, "Domain", yearly(20), nil), calendar.AddDays(f.today, -10))

	f.mailer.On("SendReminder", mock.Anything, mock.Anything).Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e pubsub.ReminderEvent) bool { return e.Manual })).Return(nil).Once()

	uc := NewSendReminderUseCase(f.assignments, f.catalog, f.mailer, f.publisher, f.metrics, logger.NewNopLogger())
	out, err := uc.Execute(context.Background(), a.SID())
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "c1@example.test", out.To)
	assert.Equal(t, biztime.FormatDate(calendar.AddYears(calendar.AddDays(f.today, -10), 1)), out.Expiry)

	_, err = uc.Execute(context.Background(), "asg_missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))

	require.NoError(t, f.customers.Delete(context.Background(), c.ID()))
	_, err = uc.Execute(context.Background(), a.SID())
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestListReminders(t *testing.T) {
	f := newFixture()
	monthly := vo.DefaultTerms(10)
	monthly.BillingType = vo.BillingTypeRecurring

	c1, c2 := f.customer(t, 1), f.customer(t, 2)
	soon := f.assign(t, c1, f.product(t, "Backup", monthly, nil), calendar.AddDays(f.today, -20))
	f.assign(t, c2, f.product(t, "Setup", vo.DefaultTerms(50), nil), calendar.AddDays(f.today, -2))
	f.assign(t, c2, f.product(t, "Domain", yearly(20), nil), calendar.AddDays(f.today, -10))

	uc := NewListRemindersUseCase(f.assignments, f.customers, f.catalog, logger.NewNopLogger())

	out, err := uc.Execute(context.Background(), ListRemindersQuery{})
	require.NoError(t, err)
	assert.Equal(t, DefaultWindowDays, out.Days)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, soon.SID(), out.Reminders[0].Mapping)
	assert.Equal(t, "Backup", out.Reminders[0].Product.Name)
	assert.Positive(t, out.Reminders[0].DaysLeft)

	out, err = uc.Execute(context.Background(), ListRemindersQuery{BillingType: "One-time"})
	require.NoError(t, err)
	assert.Zero(t, out.Count)

	wide := 400
	out, err = uc.Execute(context.Background(), ListRemindersQuery{Days: &wide, CustomerSID: c2.SID()})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "Domain", out.Reminders[0].Product.Name)

	negative := -1
	_, err = uc.Execute(context.Background(), ListRemindersQuery{Days: &negative})
	assert.True(t, errors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), ListRemindersQuery{Source: "vendor"})
	assert.True(t, errors.IsValidationError(err))
}

func TestListAdminProducts(t *testing.T) {
	f := newFixture()
	purchased := calendar.AddDays(f.today, -2)
	f.product(t, "Setup", vo.DefaultTerms(50), &purchased)
	f.product(t, "Unscheduled", vo.DefaultTerms(5), nil)

	out, err := NewListAdminProductsUseCase(f.products, logger.NewNopLogger()).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	byName := map[string]*dto.AdminProductDTO{}
	for _, p := range out {
		byName[p.Name] = p
	}
	setup := byName["Setup"]
	require.NotNil(t, setup.DaysUntilExpiry)
	assert.Equal(t, -2, *setup.DaysUntilExpiry)
	assert.True(t, setup.Due)
	assert.Equal(t, "Over-Due", setup.Bucket)

	assert.Nil(t, byName["Unscheduled"].Expiry)
	assert.False(t, byName["Unscheduled"].Due)
}

func TestExportRenewals(t *testing.T) {
	f := newFixture()
	c := f.customer(t, 1)
	f.assign(t, c, f.product(t, "Setup", vo.DefaultTerms(50), nil), calendar.AddDays(f.today, -2))
	f.assign(t, c, f.product(t, "Domain", yearly(20), nil), calendar.AddDays(f.today, -10))

	var buf bytes.Buffer
	n, err := NewExportRenewalsUseCase(f.assignments, f.catalog, logger.NewNopLogger()).Execute(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NotZero(t, buf.Len())
}
