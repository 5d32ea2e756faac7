package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port" validate:"min=1,max=65535"`
	Mode           string   `mapstructure:"mode" validate:"oneof=debug release test"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN returns the driver specific data source name.
func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == DriverSQLite {
		if d.SQLitePath == "" {
			return "file::memory:?cache=shared"
		}
		return d.SQLitePath + "?_foreign_keys=on&_busy_timeout=5000"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=json text"`
	OutputPath string `mapstructure:"output_path"`
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"min=4,max=31"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret" validate:"required"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes" validate:"min=1"`
}

func (j *JWTConfig) AccessTTL() time.Duration {
	return time.Duration(j.AccessExpMinutes) * time.Minute
}

// AdminConfig holds the bootstrap administrator that can log in without
// a stored user record.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type AuthConfig struct {
	Password PasswordConfig `mapstructure:"password"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

func (e *EmailConfig) Enabled() bool {
	return e.SMTPHost != "" && e.FromAddress != ""
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type ReminderConfig struct {
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes" validate:"min=1"`
	DefaultLeadDays      int `mapstructure:"default_lead_days" validate:"min=0"`
	HorizonDays          int `mapstructure:"horizon_days" validate:"min=1"`
	Concurrency          int `mapstructure:"concurrency" validate:"min=1"`
	SendRetries          int `mapstructure:"send_retries" validate:"min=0"`
	LockTTLSeconds       int `mapstructure:"lock_ttl_seconds" validate:"min=1"`
}

func (r *ReminderConfig) SweepInterval() time.Duration {
	return time.Duration(r.SweepIntervalMinutes) * time.Minute
}

func (r *ReminderConfig) LockTTL() time.Duration {
	return time.Duration(r.LockTTLSeconds) * time.Second
}

type CacheConfig struct {
	ProductSize       int `mapstructure:"product_size" validate:"min=1"`
	ProductTTLSeconds int `mapstructure:"product_ttl_seconds" validate:"min=1"`
}

func (c *CacheConfig) ProductTTL() time.Duration {
	return time.Duration(c.ProductTTLSeconds) * time.Second
}
