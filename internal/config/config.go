// Package config loads the zone server configuration: YAML file onto
// defaults, then ZONEFX_* environment variables on top.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is the config file used when ZONEFX_CONFIG is not set.
	DefaultPath = "config/zoneserver.yaml"

	envPrefix  = "ZONEFX_"
	envPathVar = envPrefix + "CONFIG"
)

// Storage drivers.
const (
	DriverYAML     = "yaml"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Server holds all configuration for the zone server.
type Server struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// Position updates per second for stationary players (stamina drain cadence).
	TickRate int `yaml:"tick_rate" env:"TICK_RATE"`

	// Worlds hosted by this server; zones in other worlds are skipped on load.
	Worlds []string `yaml:"worlds" env:"WORLDS" envSeparator:","`

	Storage  StorageConfig  `yaml:"storage" envPrefix:"STORAGE_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DB_"`
	Admin    AdminConfig    `yaml:"admin" envPrefix:"ADMIN_"`
}

// StorageConfig selects where zones are persisted.
type StorageConfig struct {
	Driver     string `yaml:"driver" env:"DRIVER"`
	ZonesFile  string `yaml:"zones_file" env:"ZONES_FILE"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`

	// SaveDebounce coalesces bursts of registry mutations into one write.
	SaveDebounce time.Duration `yaml:"save_debounce" env:"SAVE_DEBOUNCE"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// AdminConfig holds command permissions.
type AdminConfig struct {
	// ZoneAccessLevel is the access level required for //zone.
	ZoneAccessLevel int32 `yaml:"zone_access_level" env:"ZONE_ACCESS_LEVEL"`
	// OpAccessLevel is granted by the console "op" command when no level is given.
	OpAccessLevel int32 `yaml:"op_access_level" env:"OP_ACCESS_LEVEL"`
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		LogLevel: "info",
		TickRate: 20,
		Worlds:   []string{"world", "world_nether", "world_the_end"},
		Storage: StorageConfig{
			Driver:       DriverYAML,
			ZonesFile:    "data/zones.yml",
			SQLitePath:   "data/zones.db",
			SaveDebounce: 200 * time.Millisecond,
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "zonefx",
			Password: "zonefx",
			DBName:   "zonefx",
			SSLMode:  "disable",
		},
		Admin: AdminConfig{
			ZoneAccessLevel: 2,
			OpAccessLevel:   100,
		},
	}
}

// Path returns the config file path from ZONEFX_CONFIG or DefaultPath.
func Path() string {
	if p := os.Getenv(envPathVar); p != "" {
		return p
	}
	return DefaultPath
}

// LoadServer loads config from a YAML file and applies ZONEFX_* environment
// overrides. If the file doesn't exist, defaults are used.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (s Server) Validate() error {
	if _, err := ParseLogLevel(s.LogLevel); err != nil {
		return err
	}
	if s.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %d", s.TickRate)
	}
	if len(s.Worlds) == 0 {
		return fmt.Errorf("at least one world is required")
	}
	if s.Storage.SaveDebounce < 0 {
		return fmt.Errorf("storage.save_debounce must not be negative, got %s", s.Storage.SaveDebounce)
	}

	switch s.Storage.Driver {
	case DriverYAML:
		if s.Storage.ZonesFile == "" {
			return fmt.Errorf("storage.zones_file is required for driver %q", DriverYAML)
		}
	case DriverSQLite:
		if s.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for driver %q", DriverSQLite)
		}
	case DriverPostgres:
		if s.Database.Host == "" || s.Database.DBName == "" {
			return fmt.Errorf("database host and dbname are required for driver %q", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", s.Storage.Driver)
	}
	return nil
}

// ParseLogLevel maps debug|info|warn|error to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
