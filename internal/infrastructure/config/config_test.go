package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileWithDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: sqlite
  sqlite_path: /tmp/subtrack.db
reminder:
  default_lead_days: 7
`)

	cfg, err := LoadFile(path, "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 7, cfg.Reminder.DefaultLeadDays)
	assert.Equal(t, 30, cfg.Reminder.HorizonDays)
	assert.Equal(t, 24*time.Hour, cfg.Reminder.SweepInterval())
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.JWT.AccessTTL())
	assert.Same(t, cfg, Get())
}

func TestLoadFileEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("SUBTRACK_SERVER_PORT", "7070")
	t.Setenv("SUBTRACK_AUTH_ADMIN_EMAIL", "root@example.com")

	cfg, err := LoadFile(path, "release")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "root@example.com", cfg.Auth.Admin.Email)
}

func TestLoadFileRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: postgres\n")

	_, err := LoadFile(path, "")
	assert.ErrorContains(t, err, "invalid config")
}
