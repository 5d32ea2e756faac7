package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
	"github.com/orris-inc/subtrack/internal/domain/user"
	"github.com/orris-inc/subtrack/internal/infrastructure/migration"
	"github.com/orris-inc/subtrack/internal/infrastructure/persistence/models"
	"github.com/orris-inc/subtrack/internal/shared/config"
	"github.com/orris-inc/subtrack/internal/shared/constants"
	"github.com/orris-inc/subtrack/internal/shared/db"
	"github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = gdb.AutoMigrate(
		&models.UserModel{},
		&models.CustomerModel{},
		&models.ProductModel{},
		&models.AssignmentModel{},
		&models.LedgerEntryModel{},
	)
	require.NoError(t, err)
	return gdb
}

// setupMigratedDB builds the schema from the shipped SQL scripts rather than
// from the models.
func setupMigratedDB(t *testing.T) *gorm.DB {
	gdb, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	m, err := migration.NewManager(config.DriverSQLite, "")
	require.NoError(t, err)
	require.NoError(t, m.Migrate(gdb))
	return gdb
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var today = day(2024, 6, 1)

func seedPair(t *testing.T, gdb *gorm.DB) (*customer.Customer, *product.Product) {
	ctx := context.Background()
	c, err := customer.NewCustomer("Ada Lovelace", "ada@example.com", "0123456789")
	require.NoError(t, err)
	require.NoError(t, NewCustomerRepository(gdb, logger.NewNopLogger()).Create(ctx, c))

	terms := vo.DefaultTerms(120)
	terms.BillingType = vo.BillingTypeRecurring
	p, err := product.NewProduct("Hosting", "Shared hosting", terms, nil, 15, today)
	require.NoError(t, err)
	require.NoError(t, NewProductRepository(gdb, logger.NewNopLogger()).Create(ctx, p))
	return c, p
}

func TestCustomerRepository(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewCustomerRepository(gdb, logger.NewNopLogger())
	ctx := context.Background()

	c, err := customer.NewCustomer("Ada Lovelace", "ada@example.com", "0123456789")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, c))
	assert.NotZero(t, c.ID())

	t.Run("lookup by sid", func(t *testing.T) {
		found, err := repo.GetBySID(ctx, c.SID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "ada@example.com", found.Email())
	})

	t.Run("missing returns nil", func(t *testing.T) {
		found, err := repo.GetByID(ctx, 999)
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("exists excludes self", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "ada@example.com", 0)
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = repo.ExistsByEmail(ctx, "ada@example.com", c.ID())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate phone", func(t *testing.T) {
		dup, err := customer.NewCustomer("Grace Hopper", "grace@example.com", "0123456789")
		require.NoError(t, err)
		err = repo.Create(ctx, dup)
		assert.True(t, errors.IsConflictError(err))
	})

	t.Run("update with stale version conflicts", func(t *testing.T) {
		name := "Ada King"
		require.NoError(t, c.UpdateContact(&name, nil, nil))
		require.NoError(t, repo.Update(ctx, c))

		stale, err := customer.ReconstructCustomer(c.ID(), c.SID(), "Old", c.Email(), c.Phone(), 1, c.CreatedAt(), c.UpdatedAt())
		require.NoError(t, err)
		other := "Someone Else"
		require.NoError(t, stale.UpdateContact(&other, nil, nil))
		err = repo.Update(ctx, stale)
		assert.True(t, errors.IsConflictError(err))
	})

	t.Run("search and paginate", func(t *testing.T) {
		list, total, err := repo.List(ctx, customer.Filter{Search: "King", Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, list, 1)
		assert.Equal(t, "Ada King", list[0].Name())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, c.ID()))
		assert.ErrorIs(t, repo.Delete(ctx, c.ID()), customer.ErrCustomerNotFound)
	})
}

func TestProductRepository_ListFilters(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewProductRepository(gdb, logger.NewNopLogger())
	ctx := context.Background()

	oneTime := vo.DefaultTerms(50)
	recurring := vo.DefaultTerms(10)
	recurring.BillingType = vo.BillingTypeRecurring
	recurring.Source = vo.SourceThirdParty

	purchased := day(2024, 1, 10)
	for _, p := range []struct {
		name  string
		terms vo.Terms
	}{{"Audit", oneTime}, {"Domain", recurring}} {
		prod, err := product.NewProduct(p.name, "", p.terms, &purchased, 15, today)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, prod))
	}

	bt := vo.BillingTypeRecurring
	list, total, err := repo.List(ctx, product.Filter{BillingType: &bt})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Domain", list[0].Name())
	assert.Equal(t, vo.SourceThirdParty, list[0].Terms().Source)
	assert.Equal(t, purchased, *list[0].DatePurchased())

	list, _, err = repo.List(ctx, product.Filter{SortBy: "amount", SortDesc: true})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Audit", list[0].Name())
}

func TestAssignmentRepository_LedgerLifecycle(t *testing.T) {
	gdb := setupTestDB(t)
	c, p := seedPair(t, gdb)
	repo := NewAssignmentRepository(gdb, logger.NewNopLogger())
	ctx := context.Background()

	assigned := day(2024, 1, 15)
	a, err := assignment.NewAssignment(c.ID(), p.ID(), "primary", &assigned, today)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, a))

	_, err = a.RecordPayment(assignment.Payment{Amount: 10, Units: 1, Unit: vo.PeriodMonths, PaidDate: &assigned}, today)
	require.NoError(t, err)
	_, err = a.RecordPayment(assignment.Payment{Amount: 10, Units: 2, Unit: vo.PeriodMonths, PaidDate: &assigned}, today)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, a))

	loaded, err := repo.GetByID(ctx, a.ID())
	require.NoError(t, err)
	entries := loaded.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, day(2024, 1, 15), entries[0].Start())
	assert.Equal(t, day(2024, 2, 15), entries[1].Start())
	assert.Equal(t, day(2024, 4, 15), entries[1].End())
	assert.Equal(t, a.Version(), loaded.Version())

	require.NoError(t, loaded.DeleteEntry(0))
	require.NoError(t, repo.Update(ctx, loaded))

	reloaded, err := repo.GetBySID(ctx, a.SID())
	require.NoError(t, err)
	require.Len(t, reloaded.Entries(), 1)
	assert.Equal(t, 1, reloaded.Entries()[0].Ordinal())
	assert.Equal(t, day(2024, 3, 15), reloaded.Entries()[0].End())

	t.Run("stale writer conflicts", func(t *testing.T) {
		// a still carries the version from before the delete
		_, err := a.RecordPayment(assignment.Payment{Amount: 5, Units: 1, Unit: vo.PeriodDays}, today)
		require.NoError(t, err)
		err = repo.Update(ctx, a)
		assert.True(t, errors.IsConflictError(err))

		current, err := repo.GetByID(ctx, a.ID())
		require.NoError(t, err)
		assert.Len(t, current.Entries(), 1)
	})

	t.Run("pair is unique", func(t *testing.T) {
		dup, err := assignment.NewAssignment(c.ID(), p.ID(), "", nil, today)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), assignment.ErrDuplicateAssignment)

		found, err := repo.GetByPair(ctx, c.ID(), p.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, a.ID(), found.ID())
	})

	t.Run("reminder mark keeps version", func(t *testing.T) {
		sent := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
		require.NoError(t, repo.MarkReminderSent(ctx, a.ID(), sent))
		got, err := repo.GetByID(ctx, a.ID())
		require.NoError(t, err)
		require.NotNil(t, got.LastReminderSent())
		assert.True(t, sent.Equal(*got.LastReminderSent()))
		assert.Equal(t, reloaded.Version(), got.Version())
	})

	t.Run("delete by customer removes ledger", func(t *testing.T) {
		n, err := repo.DeleteByCustomerID(ctx, c.ID())
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		var rows int64
		require.NoError(t, gdb.Model(&models.LedgerEntryModel{}).Count(&rows).Error)
		assert.Zero(t, rows)

		list, err := repo.ListByCustomerID(ctx, c.ID())
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestAssignmentRepository_OverridesPersist(t *testing.T) {
	gdb := setupTestDB(t)
	c, p := seedPair(t, gdb)
	repo := NewAssignmentRepository(gdb, logger.NewNopLogger())
	ctx := context.Background()

	a, err := assignment.NewAssignment(c.ID(), p.ID(), "", nil, today)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, a))

	amount := 75.0
	years := vo.PeriodYears
	require.NoError(t, a.MergeOverrides(vo.TermsOverride{Amount: &amount, Period: &years}))
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.GetByID(ctx, a.ID())
	require.NoError(t, err)
	terms := got.EffectiveTerms(p.Terms())
	assert.Equal(t, 75.0, terms.Amount)
	assert.Equal(t, vo.PeriodYears, terms.Period)
	assert.Equal(t, vo.BillingTypeRecurring, terms.BillingType)
	assert.Nil(t, got.DateAssigned())
}

func TestAssignmentRepository_JoinsTransaction(t *testing.T) {
	gdb := setupTestDB(t)
	c, p := seedPair(t, gdb)
	repo := NewAssignmentRepository(gdb, logger.NewNopLogger())
	tm := db.NewTransactionManager(gdb)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		a, err := assignment.NewAssignment(c.ID(), p.ID(), "", nil, today)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, a))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	list, err := repo.List(context.Background(), assignment.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUserRepository(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewUserRepository(gdb, logger.NewNopLogger())
	ctx := context.Background()

	u, err := user.NewUser("ops@example.com", "Ops", "0123456789", "hash", constants.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, u))

	dup, err := user.NewUser("ops@example.com", "Ops 2", "", "hash", constants.RoleUser)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), user.ErrEmailTaken)

	found, err := repo.GetByEmail(ctx, "ops@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.IsAdmin())

	n, err := repo.CountByRole(ctx, constants.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	exists, err := repo.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepositories_AgainstMigratedSchema(t *testing.T) {
	gdb := setupMigratedDB(t)
	ctx := context.Background()
	c, p := seedPair(t, gdb)

	customers := NewCustomerRepository(gdb, logger.NewNopLogger())
	gotCustomer, err := customers.GetBySID(ctx, c.SID())
	require.NoError(t, err)
	require.NotNil(t, gotCustomer)
	assert.Equal(t, c.ID(), gotCustomer.ID())

	products := NewProductRepository(gdb, logger.NewNopLogger())
	gotProduct, err := products.GetBySID(ctx, p.SID())
	require.NoError(t, err)
	require.NotNil(t, gotProduct)
	assert.Equal(t, "Hosting", gotProduct.Name())

	assignments := NewAssignmentRepository(gdb, logger.NewNopLogger())
	assigned := day(2024, 1, 15)
	a, err := assignment.NewAssignment(c.ID(), p.ID(), "", &assigned, today)
	require.NoError(t, err)
	require.NoError(t, assignments.Create(ctx, a))
	_, err = a.RecordPayment(assignment.Payment{Amount: 10, Units: 1, Unit: vo.PeriodMonths, PaidDate: &assigned}, today)
	require.NoError(t, err)
	require.NoError(t, assignments.Update(ctx, a))

	gotAssignment, err := assignments.GetBySID(ctx, a.SID())
	require.NoError(t, err)
	require.NotNil(t, gotAssignment)
	require.Len(t, gotAssignment.Entries(), 1)
	assert.Equal(t, day(2024, 2, 15), gotAssignment.Entries()[0].End())

	users := NewUserRepository(gdb, logger.NewNopLogger())
	u, err := user.NewUser("ops@example.com", "Ops", "", "hash", constants.RoleUser)
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, u))
	gotUser, err := users.GetBySID(ctx, u.SID())
	require.NoError(t, err)
	require.NotNil(t, gotUser)
	assert.Equal(t, "ops@example.com", gotUser.Email())
}
