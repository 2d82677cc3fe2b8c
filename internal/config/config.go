// Package config loads the erp YAML configuration file.
// Environment variables written as ${VAR_NAME} are expanded before parsing
// and duration strings are parsed into time.Duration values.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// State backends.
const (
	BackendSQLite = "sqlite"
	BackendPudge  = "pudge"
	BackendMemory = "memory"
)

// Config represents the complete erp configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	State    StateConfig    `yaml:"state"`
	API      APIConfig      `yaml:"api"`
	Table    TableConfig    `yaml:"table"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metabase MetabaseConfig `yaml:"metabase"`
	Server   ServerConfig   `yaml:"server"`
}

// DatabaseConfig holds the local sqlite database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
	Seed bool   `yaml:"seed"`
}

// StateConfig selects where table state is persisted.
type StateConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	// Keep table state after exit instead of clearing it.
	PersistAcrossSessions bool `yaml:"persist_across_sessions"`
}

// APIConfig points the console at a remote erp-api server. An empty BaseURL
// means the local database is used.
type APIConfig struct {
	BaseURL       string        `yaml:"base_url"`
	Token         string        `yaml:"token"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	Burst         int           `yaml:"burst"`
	Timeout       time.Duration `yaml:"-"`

	TimeoutRaw string `yaml:"timeout"`
}

// TableConfig holds table component defaults.
type TableConfig struct {
	PageSize     int           `yaml:"page_size"`
	Debounce     time.Duration `yaml:"-"`
	FetchTimeout time.Duration `yaml:"-"`

	DebounceRaw     string `yaml:"debounce"`
	FetchTimeoutRaw string `yaml:"fetch_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

// MetabaseConfig holds the signed embedding settings of the BI dashboard.
type MetabaseConfig struct {
	SiteURL     string        `yaml:"site_url"`
	SecretKey   string        `yaml:"secret_key"`
	DashboardID int           `yaml:"dashboard_id"`
	TTL         time.Duration `yaml:"-"`

	TTLRaw string `yaml:"ttl"`
}

// ServerConfig holds erp-api listen settings.
type ServerConfig struct {
	Addr  string `yaml:"addr"`
	Token string `yaml:"token"`
}

// Default returns the configuration used when no file exists. Paths live
// under dir, usually ~/.erp.
func Default(dir string) *Config {
	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(dir, "erp.db"), Seed: true},
		State:    StateConfig{Backend: BackendSQLite, Path: filepath.Join(dir, "state.pudge")},
		API: APIConfig{
			RatePerSecond: 10,
			Burst:         5,
			Timeout:       15 * time.Second,
		},
		Table: TableConfig{
			PageSize:     10,
			Debounce:     300 * time.Millisecond,
			FetchTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			File:       filepath.Join(dir, "erp.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Metabase: MetabaseConfig{TTL: 10 * time.Minute},
		Server:   ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

// Load reads a configuration file from the given path on top of Default(dir).
func Load(path, dir string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data, dir)
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path, dir string) (*Config, error) {
	cfg, err := Load(path, dir)
	if errors.Is(err, os.ErrNotExist) {
		return Default(dir), nil
	}
	return cfg, err
}

// Parse decodes YAML content on top of Default(dir).
func Parse(data []byte, dir string) (*Config, error) {
	cfg := Default(dir)

	expanded := expandEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} with the variable's value, or an empty
// string when it is unset.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

// Remote reports whether the console should talk to an erp-api server.
func (c *Config) Remote() bool {
	return c.API.BaseURL != ""
}

// Validate returns the first problem found in the configuration.
func (c *Config) Validate() error {
	switch c.State.Backend {
	case BackendSQLite, BackendPudge, BackendMemory:
	default:
		return fmt.Errorf("state.backend must be one of sqlite, pudge, memory (got %q)", c.State.Backend)
	}
	if c.State.Backend == BackendPudge && c.State.Path == "" {
		return fmt.Errorf("state.path is required for the pudge backend")
	}
	if c.Database.Path == "" && (!c.Remote() || c.State.Backend == BackendSQLite) {
		return fmt.Errorf("database.path is required")
	}
	if c.Remote() {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL)
		}
	}
	if c.Table.PageSize < 1 {
		return fmt.Errorf("table.page_size must be at least 1")
	}
	if c.API.RatePerSecond < 0 {
		return fmt.Errorf("api.rate_per_second must not be negative")
	}
	if c.Metabase.SecretKey != "" && c.Metabase.SiteURL == "" {
		return fmt.Errorf("metabase.site_url is required when metabase.secret_key is set")
	}
	return nil
}

// parseDurations converts the raw duration strings into time.Duration values.
func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"api.timeout", cfg.API.TimeoutRaw, &cfg.API.Timeout},
		{"table.debounce", cfg.Table.DebounceRaw, &cfg.Table.Debounce},
		{"table.fetch_timeout", cfg.Table.FetchTimeoutRaw, &cfg.Table.FetchTimeout},
		{"metabase.ttl", cfg.Metabase.TTLRaw, &cfg.Metabase.TTL},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative", f.name)
		}
		*f.dst = d
	}
	return nil
}
