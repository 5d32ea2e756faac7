package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orris-inc/subtrack/internal/infrastructure/config"
	"github.com/orris-inc/subtrack/internal/infrastructure/database"
	"github.com/orris-inc/subtrack/internal/infrastructure/migration"
	"github.com/orris-inc/subtrack/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.AddCommand(
		newUpCommand(opts),
		newDownCommand(opts),
		newStatusCommand(opts),
		newCreateCommand(opts),
	)

	return cmd
}

func newUpCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(opts, true, func(m *migration.Manager, log logger.Interface) error {
				log.Infow("running up migrations", "environment", opts.Env)
				if err := m.Migrate(database.Get()); err != nil {
					return err
				}
				log.Infow("migrations completed successfully")
				return nil
			})
		},
	}
}

func newDownCommand(opts *bootstrap.Options) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			return withManager(opts, true, func(m *migration.Manager, log logger.Interface) error {
				log.Infow("running down migrations", "environment", opts.Env, "steps", steps)
				if err := m.Rollback(database.Get(), steps); err != nil {
					return fmt.Errorf("down migration failed: %w", err)
				}
				log.Infow("down migration completed successfully")
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(opts, true, func(m *migration.Manager, log logger.Interface) error {
				version, err := m.Version(database.Get())
				if err != nil {
					return fmt.Errorf("failed to get migration version: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "\nMigration Status:\n")
				fmt.Fprintf(out, "  Environment:     %s\n", opts.Env)
				fmt.Fprintf(out, "  Current Version: %d\n", version)

				return m.Status(database.Get())
			})
		},
	}
}

func newCreateCommand(opts *bootstrap.Options) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create a new SQL migration file for the configured database driver.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(opts, false, func(m *migration.Manager, log logger.Interface) error {
				if err := m.Create(name); err != nil {
					return fmt.Errorf("failed to create migration: %w", err)
				}
				log.Infow("migration created successfully", "name", name)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// withManager loads config, optionally connects to the database, and hands
// fn a migration manager for the configured driver.
func withManager(opts *bootstrap.Options, connect bool, fn func(*migration.Manager, logger.Interface) error) error {
	cfg, log, err := bootstrap.LoadConfig(opts)
	if err != nil {
		return err
	}

	if connect {
		if err := database.Init(&cfg.Database); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer closeDatabase(log)
	}

	m, err := newManager(cfg)
	if err != nil {
		return err
	}
	if err := fn(m, log); err != nil {
		log.Errorw("migration command failed", "error", err)
		return err
	}
	return nil
}

func newManager(cfg *config.Config) (*migration.Manager, error) {
	return migration.NewManager(cfg.Database.Driver, bootstrap.ScriptsDir)
}

func closeDatabase(log logger.Interface) {
	if err := database.Close(); err != nil {
		log.Warnw("failed to close database", "error", err)
	}
}
