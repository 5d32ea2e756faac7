package migration

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/orris-inc/subtrack/internal/shared/config"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

//go:embed scripts
var embeddedScripts embed.FS

// goose keeps dialect and base FS in package globals.
var gooseMu sync.Mutex

// Strategy is a way of bringing a schema up to date.
type Strategy interface {
	Name() string
	Up(db *gorm.DB) error
	Down(db *gorm.DB, steps int) error
	Version(db *gorm.DB) (int64, error)
	Status(db *gorm.DB) error
	Create(name string) error
}

// GooseStrategy applies the SQL scripts shipped for one dialect.
type GooseStrategy struct {
	dialect   string
	scriptDir string
	sourceDir string
	scripts   fs.FS
	logger    logger.Interface
}

// NewGooseStrategy builds a strategy for the given database driver. Scripts
// are read from the binary; sourceDir is where Create writes new files.
func NewGooseStrategy(driver, sourceDir string) (*GooseStrategy, error) {
	var dialect, dir string
	switch driver {
	case config.DriverMySQL, "":
		dialect, dir = "mysql", "scripts/mysql"
	case config.DriverSQLite:
		dialect, dir = "sqlite3", "scripts/sqlite"
	default:
		return nil, fmt.Errorf("no migration scripts for driver %q", driver)
	}
	return &GooseStrategy{
		dialect:   dialect,
		scriptDir: dir,
		sourceDir: sourceDir,
		scripts:   embeddedScripts,
		logger:    logger.NewLogger().With("component", "migration.goose"),
	}, nil
}

func (s *GooseStrategy) Name() string {
	return "goose/" + s.dialect
}

// with runs fn with goose pointed at the embedded scripts.
func (s *GooseStrategy) with(db *gorm.DB, fn func(sqlDB *sql.DB) error) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(s.scripts)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(&gooseLogger{log: s.logger})
	if err := goose.SetDialect(s.dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return fn(sqlDB)
}

func (s *GooseStrategy) Up(db *gorm.DB) error {
	return s.with(db, func(sqlDB *sql.DB) error {
		before, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get current version: %w", err)
		}
		if err := goose.Up(sqlDB, s.scriptDir); err != nil {
			return fmt.Errorf("failed to run goose migrations: %w", err)
		}
		after, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get final version: %w", err)
		}
		s.logger.Infow("goose migrations applied",
			"from_version", before,
			"to_version", after)
		return nil
	})
}

func (s *GooseStrategy) Down(db *gorm.DB, steps int) error {
	if steps < 1 {
		steps = 1
	}
	return s.with(db, func(sqlDB *sql.DB) error {
		for i := 0; i < steps; i++ {
			if err := goose.Down(sqlDB, s.scriptDir); err != nil {
				return fmt.Errorf("failed to rollback migration step %d: %w", i+1, err)
			}
		}
		s.logger.Infow("goose rollback completed", "steps", steps)
		return nil
	})
}

func (s *GooseStrategy) Version(db *gorm.DB) (int64, error) {
	var version int64
	err := s.with(db, func(sqlDB *sql.DB) error {
		v, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to get goose version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

func (s *GooseStrategy) Status(db *gorm.DB) error {
	return s.with(db, func(sqlDB *sql.DB) error {
		if err := goose.Status(sqlDB, s.scriptDir); err != nil {
			return fmt.Errorf("failed to get goose status: %w", err)
		}
		return nil
	})
}

// Create writes a new numbered SQL file into sourceDir/<dialect dir>.
func (s *GooseStrategy) Create(name string) error {
	if s.sourceDir == "" {
		return fmt.Errorf("migration source directory not configured")
	}
	dir := filepath.Join(s.sourceDir, filepath.Base(s.scriptDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create scripts directory: %w", err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(nil)
	goose.SetSequential(true)
	goose.SetLogger(&gooseLogger{log: s.logger})
	if err := goose.SetDialect(s.dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}
	s.logger.Infow("migration file created", "name", name, "dir", dir)
	return nil
}

// gooseLogger adapts goose output to the structured logger.
type gooseLogger struct {
	log logger.Interface
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...))
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}
