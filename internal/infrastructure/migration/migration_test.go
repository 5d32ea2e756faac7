package migration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/orris-inc/subtrack/internal/shared/config"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestManager_MigrateAndRollback(t *testing.T) {
	db := setupTestDB(t)
	m, err := NewManager(config.DriverSQLite, "")
	require.NoError(t, err)
	assert.Equal(t, "goose/sqlite3", m.Strategy().Name())

	require.NoError(t, m.Migrate(db))

	version, err := m.Version(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	for _, table := range []string{"users", "customers", "products", "assignments", "ledger_entries"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// idempotent
	require.NoError(t, m.Migrate(db))

	require.NoError(t, m.Rollback(db, 1))
	assert.False(t, db.Migrator().HasTable("assignments"))

	version, err = m.Version(db)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)
}

func TestManager_PairUniqueness(t *testing.T) {
	db := setupTestDB(t)
	m, err := NewManager(config.DriverSQLite, "")
	require.NoError(t, err)
	require.NoError(t, m.Migrate(db))

	require.NoError(t, db.Exec(`INSERT INTO customers (sid, name, email, phone, created_at, updated_at)
		VALUES ('cus_a', 'A B', 'a@x.io', '0123456789', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO products (sid, name, amount, created_at, updated_at)
		VALUES ('prd_a', 'Hosting', 10, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`).Error)

	insert := `INSERT INTO assignments (sid, customer_id, product_id, created_at, updated_at)
		VALUES (?, 1, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`
	require.NoError(t, db.Exec(insert, "asg_1").Error)
	assert.Error(t, db.Exec(insert, "asg_2").Error)
}

func TestNewManager_UnknownDriver(t *testing.T) {
	_, err := NewManager("postgres", "")
	assert.Error(t, err)
}

func TestGooseStrategy_CreateRequiresSourceDir(t *testing.T) {
	s, err := NewGooseStrategy(config.DriverMySQL, "")
	require.NoError(t, err)
	assert.Error(t, s.Create("add_index"))
}

func TestGooseStrategy_CreateWritesFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewGooseStrategy(config.DriverSQLite, dir)
	require.NoError(t, err)
	require.NoError(t, s.Create("add_notes"))

	matches, err := filepath.Glob(filepath.Join(dir, "sqlite", "*_add_notes.sql"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
