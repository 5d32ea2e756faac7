package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/subtrack/internal/application/assignment/services"
	"github.com/orris-inc/subtrack/internal/application/testutil"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	"github.com/orris-inc/subtrack/internal/infrastructure/metrics"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/calendar"
	"github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	customers   *testutil.MockCustomerRepository
	products    *testutil.MockProductRepository
	assignments *testutil.MockAssignmentRepository
	lock        *testutil.MockLedgerLock
	tx          *testutil.MockTransactor

	create     *CreateAssignmentUseCase
	get        *GetAssignmentUseCase
	list       *ListAssignmentsUseCase
	update     *UpdateAssignmentUseCase
	details    *UpdateDetailsUseCase
	remove     *DeleteAssignmentUseCase
	pay        *RecordPaymentUseCase
	editEntry  *EditEntryUseCase
	dropEntry  *DeleteEntryUseCase
	customer   *customer.Customer
	product    *product.Product
	mappingSID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		customers:   testutil.NewMockCustomerRepository(),
		products:    testutil.NewMockProductRepository(),
		assignments: testutil.NewMockAssignmentRepository(),
		lock:        testutil.NewMockLedgerLock(),
		tx:          &testutil.MockTransactor{},
	}
	log := logger.NewNopLogger()
	m := metrics.MustNew(prometheus.NewRegistry())
	catalog := services.NewCatalog(f.customers, f.products)

	f.create = NewCreateAssignmentUseCase(f.assignments, f.customers, f.products, log)
	f.get = NewGetAssignmentUseCase(f.assignments, catalog, log)
	f.list = NewListAssignmentsUseCase(f.assignments, f.customers, f.products, catalog, log)
	f.update = NewUpdateAssignmentUseCase(f.assignments, catalog, f.lock, f.tx, m, log)
	f.details = NewUpdateDetailsUseCase(f.assignments, catalog, f.lock, f.tx, m, log)
	f.remove = NewDeleteAssignmentUseCase(f.assignments, f.lock, log)
	f.pay = NewRecordPaymentUseCase(f.assignments, catalog, f.lock, f.tx, m, log)
	f.editEntry = NewEditEntryUseCase(f.assignments, catalog, f.lock, f.tx, m, log)
	f.dropEntry = NewDeleteEntryUseCase(f.assignments, catalog, f.lock, f.tx, m, log)

	f.customer = f.addCustomer(t, "Acme Corp", "ops@acme.test", "9876543210")
	f.product = f.addProduct(t, "Hosting", vo.DefaultTerms(120))
	return f
}

func (f *fixture) addCustomer(t *testing.T, name, email, phone string) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(name, email, phone)
	require.NoError(t, err)
	require.NoError(t, f.customers.Create(context.Background(), c))
	return c
}

func (f *fixture) addProduct(t *testing.T, name string, terms vo.Terms) *product.Product {
	t.Helper()
	p, err := product.NewProduct(name, "", terms, nil, 15, biztime.Today())
	require.NoError(t, err)
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) mapping(t *testing.T, assigned *time.Time) string {
	t.Helper()
	out, err := f.create.Execute(context.Background(), CreateAssignmentCommand{
		CustomerSID:  f.customer.SID(),
		ProductSID:   f.product.SID(),
		Remarks:      "primary",
		DateAssigned: assigned,
	})
	require.NoError(t, err)
	return out.ID
}

func TestCreateAssignment(t *testing.T) {
	f := newFixture(t)
	assigned := calendar.Date(2024, time.January, 15)

	out, err := f.create.Execute(context.Background(), CreateAssignmentCommand{
		CustomerSID:  f.customer.SID(),
		ProductSID:   f.product.SID(),
		DateAssigned: &assigned,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Customer)
	assert.Equal(t, "Acme Corp", out.Customer.Name)
	assert.Equal(t, "Hosting", out.Product.Name)
	require.NotNil(t, out.Expiry)
	// One-time product without payments expires on its start date.
	assert.Equal(t, "2024-01-15", *out.Expiry)
	assert.Equal(t, "Expired", out.Bucket)
	assert.Empty(t, out.Subscriptions)

	t.Run("duplicate pair", func(t *testing.T) {
		_, err := f.create.Execute(context.Background(), CreateAssignmentCommand{
			CustomerSID: f.customer.SID(),
			ProductSID:  f.product.SID(),
		})
		require.Error(t, err)
		assert.True(t, errors.IsConflictError(err))
		assert.Equal(t, 400, errors.GetAppError(err).Code)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := f.create.Execute(context.Background(), CreateAssignmentCommand{
			CustomerSID: f.customer.SID(),
			ProductSID:  "prd_missing",
		})
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
		assert.Equal(t, "Customer or Product not found", errors.GetAppError(err).Message)
	})

	t.Run("future assignment date", func(t *testing.T) {
		other := f.addProduct(t, "Support", vo.DefaultTerms(10))
		future := calendar.AddDays(biztime.Today(), 3)
		_, err := f.create.Execute(context.Background(), CreateAssignmentCommand{
			CustomerSID:  f.customer.SID(),
			ProductSID:   other.SID(),
			DateAssigned: &future,
		})
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestRecordPaymentChainsEntries(t *testing.T) {
	f := newFixture(t)
	assigned := calendar.Date(2024, time.January, 15)
	sid := f.mapping(t, &assigned)
	ctx := context.Background()

	out, err := f.pay.Execute(ctx, RecordPaymentCommand{SID: sid, Amount: 100})
	require.NoError(t, err)
	require.Len(t, out.Subscriptions, 1)
	assert.Equal(t, "2024-01-15", out.Subscriptions[0].DatePaid)
	assert.Equal(t, "2024-02-15", out.Subscriptions[0].ExpiresAt)
	assert.Equal(t, 1, out.Subscriptions[0].Units)
	assert.Equal(t, "Months", out.Subscriptions[0].UnitType)

	paid := calendar.Date(2024, time.February, 1)
	out, err = f.pay.Execute(ctx, RecordPaymentCommand{SID: sid, Amount: 300, Units: ptr(3), UnitType: "months", DatePaid: &paid})
	require.NoError(t, err)
	require.Len(t, out.Subscriptions, 2)
	assert.Equal(t, "2024-02-15", out.Subscriptions[1].DatePaid)
	assert.Equal(t, "2024-05-15", out.Subscriptions[1].ExpiresAt)
	assert.Equal(t, "2024-05-15", *out.Expiry)

	assert.Equal(t, 2, f.tx.Calls)
	assert.Len(t, f.lock.Acquired, 2)
	assert.False(t, f.lock.Held(1))
}

func TestRecordPaymentValidation(t *testing.T) {
	f := newFixture(t)
	sid := f.mapping(t, nil)

	_, err := f.pay.Execute(context.Background(), RecordPaymentCommand{SID: sid, Amount: 0})
	require.Error(t, err)
	assert.Equal(t, "Subscription amount must be greater than 0", errors.GetAppError(err).Message)

	_, err = f.pay.Execute(context.Background(), RecordPaymentCommand{SID: sid, Amount: 10, UnitType: "weeks"})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	for _, units := range []int{0, -2} {
		_, err = f.pay.Execute(context.Background(), RecordPaymentCommand{SID: sid, Amount: 10, Units: ptr(units)})
		require.Error(t, err)
		assert.Equal(t, "Subscription units must be greater than 0", errors.GetAppError(err).Message)
	}

	_, err = f.pay.Execute(context.Background(), RecordPaymentCommand{SID: "asg_missing", Amount: 10})
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
	assert.Zero(t, f.assignments.UpdateCalls)
}

func TestRecordPaymentLockBusy(t *testing.T) {
	f := newFixture(t)
	sid := f.mapping(t, nil)

	a, err := f.assignments.GetBySID(context.Background(), sid)
	require.NoError(t, err)
	release, err := f.lock.Acquire(context.Background(), a.ID())
	require.NoError(t, err)
	defer release()

	_, err = f.pay.Execute(context.Background(), RecordPaymentCommand{SID: sid, Amount: 10})
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))
	assert.Equal(t, 409, errors.GetAppError(err).Code)
	assert.Zero(t, f.assignments.UpdateCalls)
}

func TestEditEntryCascades(t *testing.T) {
	f := newFixture(t)
	assigned := calendar.Date(2024, time.January, 15)
	sid := f.mapping(t, &assigned)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.pay.Execute(ctx, RecordPaymentCommand{SID: sid, Amount: 50, DatePaid: &assigned})
		require.NoError(t, err)
	}

	out, err := f.editEntry.Execute(ctx, EditEntryCommand{SID: sid, Index: 0, Units: ptr(1), UnitType: ptr("Years")})
	require.NoError(t, err)
	require.Len(t, out.Subscriptions, 3)
	assert.Equal(t, "2025-01-15", out.Subscriptions[0].ExpiresAt)
	assert.Equal(t, "2025-01-15", out.Subscriptions[1].DatePaid)
	assert.Equal(t, "2025-02-15", out.Subscriptions[1].ExpiresAt)
	assert.Equal(t, "2025-03-15", out.Subscriptions[2].ExpiresAt)

	out, err = f.editEntry.Execute(ctx, EditEntryCommand{SID: sid, Index: 1, Amount: ptr(75.0)})
	require.NoError(t, err)
	assert.Equal(t, 75.0, out.Subscriptions[1].Amount)
	assert.Equal(t, "2025-02-15", out.Subscriptions[1].ExpiresAt)

	_, err = f.editEntry.Execute(ctx, EditEntryCommand{SID: sid, Index: 9, Amount: ptr(1.0)})
	require.Error(t, err)
	assert.Equal(t, "Subscription not found", errors.GetAppError(err).Message)

	_, err = f.editEntry.Execute(ctx, EditEntryCommand{SID: sid, Index: 0})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestDeleteEntryRechains(t *testing.T) {
	f := newFixture(t)
	assigned := calendar.Date(2024, time.January, 15)
	sid := f.mapping(t, &assigned)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.pay.Execute(ctx, RecordPaymentCommand{SID: sid, Amount: float64(10 * (i + 1)), DatePaid: &assigned})
		require.NoError(t, err)
	}

	out, err := f.dropEntry.Execute(ctx, DeleteEntryCommand{SID: sid, Index: 0})
	require.NoError(t, err)
	require.Len(t, out.Subscriptions, 2)
	assert.Equal(t, 1, out.Subscriptions[0].Ordinal)
	assert.Equal(t, 20.0, out.Subscriptions[0].Amount)
	assert.Equal(t, "2024-01-15", out.Subscriptions[0].DatePaid)
	assert.Equal(t, "2024-03-15", *out.Expiry)
}

func TestUpdateAssignmentKeepsLedger(t *testing.T) {
	f := newFixture(t)
	assigned := calendar.Date(2024, time.January, 15)
	sid := f.mapping(t, &assigned)
	ctx := context.Background()

	_, err := f.pay.Execute(ctx, RecordPaymentCommand{SID: sid, Amount: 10})
	require.NoError(t, err)

	moved := calendar.Date(2024, time.March, 1)
	out, err := f.update.Execute(ctx, UpdateAssignmentCommand{SID: sid, Remarks: ptr("renegotiated"), DateAssigned: &moved})
	require.NoError(t, err)
	assert.Equal(t, "renegotiated", out.Remarks)
	assert.Equal(t, "2024-03-01", *out.DateAssigned)
	assert.Equal(t, "2024-01-15", out.Subscriptions[0].DatePaid)
}

func TestUpdateDetailsOverridesTerms(t *testing.T) {
	f := newFixture(t)
	assigned := calendar.Date(2024, time.January, 15)
	sid := f.mapping(t, &assigned)

	out, err := f.details.Execute(context.Background(), UpdateDetailsCommand{
		SID:         sid,
		BillingType: ptr("Recurring"),
		Count:       ptr(6),
		Period:      ptr("months"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Recurring", out.Terms.BillingType)
	assert.Equal(t, 120.0, out.Terms.Amount)
	require.NotNil(t, out.Overrides.Count)
	assert.Equal(t, 6, *out.Overrides.Count)
	assert.Nil(t, out.Overrides.Amount)
	assert.Equal(t, "2024-07-15", *out.Expiry)

	_, err = f.details.Execute(context.Background(), UpdateDetailsCommand{SID: sid})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	_, err = f.details.Execute(context.Background(), UpdateDetailsCommand{SID: sid, Source: ptr("vendor")})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestDeleteAssignment(t *testing.T) {
	f := newFixture(t)
	sid := f.mapping(t, nil)

	out, err := f.remove.Execute(context.Background(), sid)
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, sid, out.ID)
	assert.Zero(t, f.assignments.Count())

	_, err = f.get.Execute(context.Background(), sid)
	require.Error(t, err)
	assert.Equal(t, "Mapping not found", errors.GetAppError(err).Message)
}

func TestListAssignments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := biztime.Today()

	recurring := vo.DefaultTerms(40)
	recurring.BillingType = vo.BillingTypeRecurring
	recurring.Count = 1
	recurring.Period = vo.PeriodYears

	beta := f.addCustomer(t, "Beta Ltd", "hello@beta.test", "9123456789")
	domain := f.addProduct(t, "Domain", recurring)

	old := calendar.Date(2020, time.June, 1)
	recent := calendar.AddDays(today, -10)
	f.mapping(t, &old) // Acme / Hosting, expired

	_, err := f.create.Execute(ctx, CreateAssignmentCommand{CustomerSID: beta.SID(), ProductSID: domain.SID(), DateAssigned: &recent})
	require.NoError(t, err)
	_, err = f.create.Execute(ctx, CreateAssignmentCommand{CustomerSID: beta.SID(), ProductSID: f.product.SID(), Remarks: "no date"})
	require.NoError(t, err)

	t.Run("sort by expiry puts unknown last", func(t *testing.T) {
		res, err := f.list.Execute(ctx, ListAssignmentsQuery{SortBy: SortByExpiry})
		require.NoError(t, err)
		require.Len(t, res.Mappings, 3)
		assert.Equal(t, "2020-06-01", *res.Mappings[0].Expiry)
		assert.Nil(t, res.Mappings[2].Expiry)

		res, err = f.list.Execute(ctx, ListAssignmentsQuery{SortBy: SortByExpiry, SortDesc: true})
		require.NoError(t, err)
		assert.Equal(t, "Domain", res.Mappings[0].Product.Name)
		assert.Nil(t, res.Mappings[2].Expiry)
	})

	t.Run("search", func(t *testing.T) {
		res, err := f.list.Execute(ctx, ListAssignmentsQuery{Search: "beta"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, res.Total)
	})

	t.Run("bucket", func(t *testing.T) {
		res, err := f.list.Execute(ctx, ListAssignmentsQuery{Bucket: "Over-Due"})
		require.NoError(t, err)
		require.Len(t, res.Mappings, 1)
		assert.Equal(t, "Acme Corp", res.Mappings[0].Customer.Name)

		_, err = f.list.Execute(ctx, ListAssignmentsQuery{Bucket: "Soon"})
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("customer filter", func(t *testing.T) {
		res, err := f.list.Execute(ctx, ListAssignmentsQuery{CustomerSID: beta.SID()})
		require.NoError(t, err)
		assert.Len(t, res.Mappings, 2)

		res, err = f.list.Execute(ctx, ListAssignmentsQuery{CustomerSID: "cus_unknown"})
		require.NoError(t, err)
		assert.Empty(t, res.Mappings)
	})

	t.Run("pagination", func(t *testing.T) {
		res, err := f.list.Execute(ctx, ListAssignmentsQuery{SortBy: SortByCustomer, Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 3, res.Total)
		require.Len(t, res.Mappings, 1)
		assert.Equal(t, "Beta Ltd", res.Mappings[0].Customer.Name)
	})

	t.Run("invalid sort", func(t *testing.T) {
		_, err := f.list.Execute(ctx, ListAssignmentsQuery{SortBy: "amount"})
		assert.True(t, errors.IsValidationError(err))
	})
}
