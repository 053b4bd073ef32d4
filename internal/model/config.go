package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DatabaseConfig holds the SQLite location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// WebConfig holds settings for the HTTP server.
type WebConfig struct {
	Addr          string        `mapstructure:"addr" yaml:"addr"`
	SessionTTL    time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
	SessionSecret string        `mapstructure:"session_secret" yaml:"session_secret"`
	SecureCookies bool          `mapstructure:"secure_cookies" yaml:"secure_cookies"`
}

// ClockConfig controls which calendar day counts as "today".
type ClockConfig struct {
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Level  string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Web      WebConfig      `mapstructure:"web" yaml:"web"`
	Clock    ClockConfig    `mapstructure:"clock" yaml:"clock"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.Clock.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Clock.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Clock.Timezone, err)
	}
	return loc, nil
}

// configDir is ~/.config/todoapp, or the working directory when the home
// directory cannot be resolved.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "todoapp")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/todoapp/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultDatabasePath returns ~/.config/todoapp/todos.db.
func DefaultDatabasePath() string {
	return filepath.Join(configDir(), "todos.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{Path: DefaultDatabasePath()},
		Web: WebConfig{
			Addr:       ":4000",
			SessionTTL: 24 * time.Hour,
		},
		Clock: ClockConfig{Timezone: "UTC"},
		Log:   LogConfig{Format: "json", Level: "info"},
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"db":         "database.path",
	"addr":       "web.addr",
	"log-format": "log.format",
	"log-level":  "log.level",
	"timezone":   "clock.timezone",
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Values are layered: defaults, then the file (if it exists), then TODO_*
// environment variables, then any flags in fs that were set explicitly.
// fs may be nil.
func LoadConfig(path string, fs *pflag.FlagSet) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("web.addr", def.Web.Addr)
	v.SetDefault("web.session_ttl", def.Web.SessionTTL)
	v.SetDefault("web.session_secret", "")
	v.SetDefault("web.secure_cookies", false)
	v.SetDefault("clock.timezone", def.Clock.Timezone)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.level", def.Log.Level)

	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database.path", cfg.Database.Path)
	v.Set("web.addr", cfg.Web.Addr)
	v.Set("web.session_ttl", cfg.Web.SessionTTL.String())
	v.Set("web.secure_cookies", cfg.Web.SecureCookies)
	v.Set("clock.timezone", cfg.Clock.Timezone)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
