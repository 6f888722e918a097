package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// Addr is the listen address in host:port form.
	Addr string `mapstructure:"addr" yaml:"addr"`

	// CORSOrigins lists the origins allowed to call the API from a browser.
	// A single "*" allows any origin; an empty list disables CORS headers.
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`

	// ShutdownTimeoutSec bounds how long (in seconds) a graceful shutdown
	// may wait for in-flight requests.
	ShutdownTimeoutSec int `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	// Path is the SQLite file path; ":memory:" keeps everything in RAM.
	Path string `mapstructure:"path" yaml:"path"`
}

// ClientConfig holds settings for the API client and its cache mirror.
type ClientConfig struct {
	// BaseURL is the root URL of the todo service.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// RefreshIntervalSec is how often (in seconds) the mirror refetches
	// the full dataset.
	RefreshIntervalSec int `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`

	// PageSize is the batch size used when paging through the dataset.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// TimeoutSec bounds each HTTP request in seconds.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Client   ClientConfig   `mapstructure:"client" yaml:"client"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// ShutdownTimeout returns the graceful-shutdown bound as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

// RefreshInterval returns the mirror refresh period as a duration.
func (c ClientConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSec) * time.Second
}

// Timeout returns the per-request HTTP timeout as a duration.
func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/todoservice/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "todoservice", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Addr:               ":8080",
			CORSOrigins:        []string{"*"},
			ShutdownTimeoutSec: 10,
		},
		Database: DatabaseConfig{
			Path: "todo.db",
		},
		Client: ClientConfig{
			BaseURL:            "http://localhost:8080",
			RefreshIntervalSec: 60,
			PageSize:           100,
			TimeoutSec:         30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout_sec", 10)
	v.SetDefault("database.path", "todo.db")
	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.refresh_interval_sec", 60)
	v.SetDefault("client.page_size", 100)
	v.SetDefault("client.timeout_sec", 30)
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
