package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/subtrack/internal/shared/logger"
)

// Manager runs schema changes through a Strategy.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks the script set matching the database driver.
func NewManager(driver, sourceDir string) (*Manager, error) {
	strategy, err := NewGooseStrategy(driver, sourceDir)
	if err != nil {
		return nil, err
	}
	return NewManagerWithStrategy(strategy), nil
}

func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.NewLogger().With("component", "migration.manager"),
	}
}

func (m *Manager) Strategy() Strategy {
	return m.strategy
}

// Migrate brings the schema to the latest version.
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.Name())

	if err := m.strategy.Up(db); err != nil {
		m.logger.Errorw("migration failed",
			"strategy", m.strategy.Name(),
			"error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.Name(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.Name())
	return nil
}

func (m *Manager) Rollback(db *gorm.DB, steps int) error {
	m.logger.Infow("rolling back migrations",
		"strategy", m.strategy.Name(),
		"steps", steps)
	return m.strategy.Down(db, steps)
}

func (m *Manager) Version(db *gorm.DB) (int64, error) {
	return m.strategy.Version(db)
}

func (m *Manager) Status(db *gorm.DB) error {
	return m.strategy.Status(db)
}

func (m *Manager) Create(name string) error {
	return m.strategy.Create(name)
}
