// Package config loads client configuration from masetero.yaml and
// MASETERO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the CLI, engine, daemon, and dashboard need.
type Config struct {
	// DBPath is the local SQLite database file.
	DBPath string `mapstructure:"db_path"`

	// RemoteURL is the root of the remote JSON tree. Empty disables the
	// remote tier (status still works locally).
	RemoteURL string `mapstructure:"remote_url"`

	// RemoteToken is the optional auth token sent with every request.
	RemoteToken string `mapstructure:"remote_token"`

	// TablePause is the quiescence pause between export tables.
	TablePause time.Duration `mapstructure:"table_pause"`

	// ImportTimeout bounds each table's snapshot read.
	ImportTimeout time.Duration `mapstructure:"import_timeout"`

	// DaemonDebounce is how long the daemon waits after a local change
	// before exporting, batching rapid writes together.
	DaemonDebounce time.Duration `mapstructure:"daemon_debounce"`

	// DaemonInterval is the daemon's periodic full-export interval.
	DaemonInterval time.Duration `mapstructure:"daemon_interval"`

	// DaemonLogFile, when set, routes daemon logs to a rotating file
	// instead of stderr.
	DaemonLogFile string `mapstructure:"daemon_log_file"`

	// DashboardPort is the progress dashboard's listen port.
	DashboardPort int `mapstructure:"dashboard_port"`
}

// Load reads configuration from the given file, or from masetero.yaml in
// the working directory and $HOME when file is empty. A missing config
// file is not an error; defaults and environment variables still apply.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db_path", ".masetero/local.db")
	v.SetDefault("remote_url", "")
	v.SetDefault("remote_token", "")
	v.SetDefault("table_pause", time.Second)
	v.SetDefault("import_timeout", 30*time.Second)
	v.SetDefault("daemon_debounce", 5*time.Second)
	v.SetDefault("daemon_interval", 15*time.Minute)
	v.SetDefault("daemon_log_file", "")
	v.SetDefault("dashboard_port", 8080)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("masetero")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix("MASETERO")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
