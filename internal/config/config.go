// Package config loads the playground configuration.
//
// Configuration is layered in order of increasing precedence:
//  1. Hardcoded defaults (NewConfig)
//  2. User config ($XDG_CONFIG_HOME/openplayground/config.yaml)
//  3. Project config (.playground.yaml in the config directory)
//  4. Environment variables (PLAYGROUND_*)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/openplayground/catalog/internal/shell"
)

// ProjectConfigName is the project-level config file name.
const ProjectConfigName = ".playground.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PLAYGROUND_"

// Config is the complete playground configuration.
type Config struct {
	Version   int             `yaml:"version"`
	Catalog   CatalogConfig   `yaml:"catalog" envPrefix:"CATALOG_"`
	Browse    BrowseConfig    `yaml:"browse" envPrefix:"BROWSE_"`
	Storage   StorageConfig   `yaml:"storage" envPrefix:"STORAGE_"`
	Server    ServerConfig    `yaml:"server" envPrefix:"SERVER_"`
	Telemetry TelemetryConfig `yaml:"telemetry" envPrefix:"TELEMETRY_"`
}

// CatalogConfig locates projects.json and controls reloading.
type CatalogConfig struct {
	Path          string `yaml:"path" env:"PATH"`
	Watch         bool   `yaml:"watch" env:"WATCH"`
	WatchDebounce string `yaml:"watch_debounce" env:"WATCH_DEBOUNCE"`
}

// BrowseConfig holds shell rendering defaults.
type BrowseConfig struct {
	PageSize    int    `yaml:"page_size" env:"PAGE_SIZE"`
	DefaultSort string `yaml:"default_sort" env:"DEFAULT_SORT"`
}

// StorageConfig selects where bookmarks and the theme preference live.
type StorageConfig struct {
	// Backend is "sqlite" or "file".
	Backend string `yaml:"backend" env:"BACKEND"`
	Path    string `yaml:"path" env:"PATH"`
}

// ServerConfig configures the HTTP server and log level.
type ServerConfig struct {
	Host      string  `yaml:"host" env:"HOST"`
	Port      int     `yaml:"port" env:"PORT"`
	RateLimit float64 `yaml:"rate_limit" env:"RATE_LIMIT"`
	Burst     int     `yaml:"burst" env:"BURST"`
	LogLevel  string  `yaml:"log_level" env:"LOG_LEVEL"`
}

// TelemetryConfig configures in-process query telemetry.
type TelemetryConfig struct {
	Enabled    bool `yaml:"enabled" env:"ENABLED"`
	BufferSize int  `yaml:"buffer_size" env:"BUFFER_SIZE"`
	TopQueries int  `yaml:"top_queries" env:"TOP_QUERIES"`
}

// NewConfig creates a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Catalog: CatalogConfig{
			Path:          "projects.json",
			Watch:         true,
			WatchDebounce: "200ms",
		},
		Browse: BrowseConfig{
			PageSize:    shell.DefaultPageSize,
			DefaultSort: string(shell.SortDefault),
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    defaultStoragePath("sqlite"),
		},
		Server: ServerConfig{
			Host:      "127.0.0.1",
			Port:      8787,
			RateLimit: 20,
			Burst:     40,
			LogLevel:  "info",
		},
		Telemetry: TelemetryConfig{
			Enabled:    true,
			BufferSize: 256,
			TopQueries: 10,
		},
	}
}

// DataDir returns ~/.openplayground, falling back to the temp directory.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".openplayground")
	}
	return filepath.Join(home, ".openplayground")
}

func defaultStoragePath(backend string) string {
	if backend == "file" {
		return filepath.Join(DataDir(), "state.json")
	}
	return filepath.Join(DataDir(), "state.db")
}

// GetUserConfigPath returns the user configuration path:
//   - $XDG_CONFIG_HOME/openplayground/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/openplayground/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "openplayground", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "openplayground", "config.yaml")
	}
	return filepath.Join(home, ".config", "openplayground", "config.yaml")
}

// Load builds the configuration for dir. Relative catalog and storage
// paths from the project config are resolved against dir.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	userPath := GetUserConfigPath()
	if fileExists(userPath) {
		if err := cfg.loadYAML(userPath); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
	}

	projectPath := filepath.Join(dir, ProjectConfigName)
	if fileExists(projectPath) {
		storageBefore := cfg.Storage
		if err := cfg.loadYAML(projectPath); err != nil {
			return nil, err
		}
		// A backend switch without a path follows the backend's default file.
		if cfg.Storage.Backend != storageBefore.Backend && cfg.Storage.Path == storageBefore.Path {
			cfg.Storage.Path = defaultStoragePath(cfg.Storage.Backend)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if !filepath.IsAbs(cfg.Catalog.Path) {
		cfg.Catalog.Path = filepath.Join(dir, cfg.Catalog.Path)
	}
	if cfg.Storage.Path != "" && !filepath.IsAbs(cfg.Storage.Path) {
		cfg.Storage.Path = filepath.Join(dir, cfg.Storage.Path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadYAML overlays the keys present in path onto c.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies PLAYGROUND_* variables, e.g.
// PLAYGROUND_CATALOG_PATH or PLAYGROUND_SERVER_PORT.
func (c *Config) applyEnvOverrides() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// WatchDebounceDuration parses Catalog.WatchDebounce.
func (c *Config) WatchDebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Catalog.WatchDebounce)
	if err != nil {
		return 200 * time.Millisecond
	}
	return d
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return fmt.Errorf("catalog.path must not be empty")
	}
	if d, err := time.ParseDuration(c.Catalog.WatchDebounce); err != nil || d < 0 {
		return fmt.Errorf("catalog.watch_debounce must be a non-negative duration, got %q", c.Catalog.WatchDebounce)
	}

	if c.Browse.PageSize <= 0 {
		return fmt.Errorf("browse.page_size must be positive, got %d", c.Browse.PageSize)
	}
	if _, err := shell.ParseSort(c.Browse.DefaultSort); err != nil {
		return fmt.Errorf("browse.default_sort: %w", err)
	}

	switch strings.ToLower(c.Storage.Backend) {
	case "sqlite", "file":
	default:
		return fmt.Errorf("storage.backend must be 'sqlite' or 'file', got %s", c.Storage.Backend)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must be non-negative, got %v", c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.Burst <= 0 {
		return fmt.Errorf("server.burst must be positive when rate limiting, got %d", c.Server.Burst)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return fmt.Errorf("server.log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.Server.LogLevel)
	}

	if c.Telemetry.BufferSize <= 0 {
		return fmt.Errorf("telemetry.buffer_size must be positive, got %d", c.Telemetry.BufferSize)
	}
	if c.Telemetry.TopQueries < 0 {
		return fmt.Errorf("telemetry.top_queries must be non-negative, got %d", c.Telemetry.TopQueries)
	}
	return nil
}

// WriteYAML writes the configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
