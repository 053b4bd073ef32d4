package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, ":4000", cfg.Web.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Web.SessionTTL)
	assert.Equal(t, "UTC", cfg.Clock.Timezone)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfigFileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
database:
  path: /tmp/file.db
web:
  addr: ":8080"
  session_ttl: 2h
log:
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("TODO_WEB_ADDR", ":9090")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db", "", "")
	fs.String("log-format", "", "")
	require.NoError(t, fs.Parse([]string{"--db", "/tmp/flag.db"}))

	cfg, err := LoadConfig(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.db", cfg.Database.Path)
	assert.Equal(t, ":9090", cfg.Web.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Web.SessionTTL)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfigRejectsBadTimezone(t *testing.T) {
	t.Setenv("TODO_CLOCK_TIMEZONE", "Nowhere/Special")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultAppConfig()
	cfg.Web.Addr = ":7000"
	cfg.Clock.Timezone = "Asia/Kolkata"

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, ":7000", loaded.Web.Addr)
	assert.Equal(t, "Asia/Kolkata", loaded.Clock.Timezone)

	loc, err := loaded.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}
