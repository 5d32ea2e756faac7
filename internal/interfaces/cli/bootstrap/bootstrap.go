// Package bootstrap loads configuration and opens the shared connections
// every subtrack command needs.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/orris-inc/subtrack/internal/infrastructure/config"
	"github.com/orris-inc/subtrack/internal/infrastructure/database"
	"github.com/orris-inc/subtrack/internal/infrastructure/migration"
	"github.com/orris-inc/subtrack/internal/shared/biztime"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

// ScriptsDir is where `migrate create` writes new migration files. Applied
// scripts are embedded in the binary.
const ScriptsDir = "./internal/infrastructure/migration/scripts"

// Options are the flags shared by every command.
type Options struct {
	Env        string
	ConfigPath string
	Verbose    bool
}

// Bind registers the shared flags as persistent flags of cmd.
func (o *Options) Bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&o.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&o.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false, "Log source locations at every level")
}

// Runtime is what a command works with once the process is initialized.
type Runtime struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Log    logger.Interface
}

// LoadConfig reads configuration and initializes logging and the business
// timezone. It opens no connections.
func LoadConfig(opts *Options) (*config.Config, logger.Interface, error) {
	mode := ModeForEnv(opts.Env)

	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.LoadFile(opts.ConfigPath, mode)
	} else {
		cfg, err = config.Load(mode)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, opts.Verbose); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := biztime.Init(cfg.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// Boot loads configuration and connects to the database and Redis. When
// migrate is set, pending migrations are applied before returning.
func Boot(ctx context.Context, opts *Options, migrate bool) (*Runtime, error) {
	cfg, log, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	db := database.Get()

	if migrate {
		if err := Migrate(cfg, db); err != nil {
			_ = database.Close()
			return nil, err
		}
	}

	redisClient, err := OpenRedis(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	log.Infow("redis connection established", "addr", cfg.Redis.GetAddr())

	return &Runtime{Config: cfg, DB: db, Redis: redisClient, Log: log}, nil
}

// Migrate applies every pending migration for the configured driver.
func Migrate(cfg *config.Config, db *gorm.DB) error {
	manager, err := migration.NewManager(cfg.Database.Driver, ScriptsDir)
	if err != nil {
		return err
	}
	return manager.Migrate(db)
}

// OpenRedis connects and pings within a short deadline.
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
	}
	return client, nil
}

// Close releases Redis and the database. Errors are logged, not returned.
func (r *Runtime) Close() {
	if err := r.Redis.Close(); err != nil {
		r.Log.Warnw("failed to close redis client", "error", err)
	}
	if err := database.Close(); err != nil {
		r.Log.Warnw("failed to close database", "error", err)
	}
}

// ModeForEnv maps deployment environment names onto gin modes.
func ModeForEnv(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
