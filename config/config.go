// Package config loads recovery-ledger configuration.
//
// Values come from, in increasing precedence: built-in defaults, a YAML
// file, RECOVERY_* environment variables, and command-line flags (applied
// by the caller). Load does not validate; callers run Validate once every
// override is in place.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/warp/recovery-ledger/emissions"
	"github.com/warp/recovery-ledger/factory"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "recovery.yaml"

// Store backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Environment variable names.
const (
	EnvPort         = "RECOVERY_PORT"
	EnvStoreBackend = "RECOVERY_STORE_BACKEND"
	EnvStorePath    = "RECOVERY_STORE_PATH"
	EnvLogLevel     = "RECOVERY_LOG_LEVEL"
	EnvLogFormat    = "RECOVERY_LOG_FORMAT"
	EnvReference    = "RECOVERY_REFERENCE_FILE"
)

type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Store          StoreConfig          `yaml:"store"`
	Logging        LoggingConfig        `yaml:"logging"`
	Metrics        MetricsConfig        `yaml:"metrics"`
	ReferenceTable []factory.FactorSpec `yaml:"reference_table,omitempty"`
	// ReferenceFile names a standalone table document (factory format).
	// It is mutually exclusive with ReferenceTable.
	ReferenceFile  string               `yaml:"reference_file,omitempty"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Store: StoreConfig{
			Backend: BackendCSV,
			Path:    "data.csv",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error when path is DefaultPath or empty. The
// result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != "" && path != DefaultPath
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// defaults only
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. lookup is os.LookupEnv in
// production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvPort, v, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvStoreBackend); ok && v != "" {
		c.Store.Backend = strings.ToLower(v)
	}
	if v, ok := lookup(EnvStorePath); ok && v != "" {
		c.Store.Path = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookup(EnvReference); ok && v != "" {
		c.ReferenceFile = v
		c.ReferenceTable = nil
	}
	return nil
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	switch c.Store.Backend {
	case BackendCSV, BackendSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("config: store.path is required for the %s backend", c.Store.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown store.backend %q (want csv, sqlite or memory)", c.Store.Backend)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: unknown logging.format %q", c.Logging.Format)
	}
	if c.ReferenceFile != "" && len(c.ReferenceTable) > 0 {
		return fmt.Errorf("config: reference_file and reference_table are mutually exclusive")
	}
	if _, err := factory.FromSpecs(c.ReferenceTable); err != nil {
		return fmt.Errorf("config: reference_table: %w", err)
	}
	return nil
}

// Reference builds the configured reference table: the reference_file
// document when set, else the inline reference_table, else the defaults.
func (c Config) Reference() (*emissions.ReferenceTable, error) {
	if c.ReferenceFile != "" {
		table, err := factory.LoadReferenceTable(c.ReferenceFile)
		if err != nil {
			return nil, fmt.Errorf("config: reference_file: %w", err)
		}
		return table, nil
	}
	return factory.FromSpecs(c.ReferenceTable)
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
