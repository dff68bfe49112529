package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by AppConfig.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// AppConfig is the file-backed configuration of the circulation CLI.
type AppConfig struct {
	Backend       string                `yaml:"backend"`
	LogLevel      string                `yaml:"log_level"`
	Postgres      PostgresSettings      `yaml:"postgres"`
	SQLite        SQLiteSettings        `yaml:"sqlite"`
	Redis         RedisSettings         `yaml:"redis"`
	Observability ObservabilitySettings `yaml:"observability"`
}

// PostgresSettings configures the postgres backend. ReplicaDSN is optional;
// when set, reads that tolerate replica lag are routed to the replica.
type PostgresSettings struct {
	DSN        string `yaml:"dsn"`
	ReplicaDSN string `yaml:"replica_dsn"`
}

// SQLiteSettings configures the sqlite backend.
type SQLiteSettings struct {
	Path string `yaml:"path"`
}

// RedisSettings configures the redis backend.
type RedisSettings struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ObservabilitySettings configures OTLP telemetry export. Export stays off
// unless Enabled is set.
type ObservabilitySettings struct {
	Enabled        bool   `yaml:"enabled"`
	TraceEndpoint  string `yaml:"trace_endpoint"`
	MetricEndpoint string `yaml:"metric_endpoint"`
}

// DefaultAppConfig returns the configuration used when no file overrides it:
// the in-memory backend with info logging and telemetry export disabled.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Backend:  BackendMemory,
		LogLevel: "info",
		Postgres: PostgresSettings{
			DSN: PostgresDefaultDSN(),
		},
		SQLite: SQLiteSettings{
			Path: "circulation.db",
		},
		Redis: RedisSettings{
			Addr: "localhost:6379",
		},
		Observability: ObservabilitySettings{
			Enabled:        false,
			TraceEndpoint:  JaegerEndpoint(),
			MetricEndpoint: OTELCollectorEndpoint(),
		},
	}
}

// LoadAppConfig reads a YAML configuration file and merges it over the
// defaults. Keys absent from the file keep their default values.
func LoadAppConfig(path string) (AppConfig, error) {
	cfg := DefaultAppConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("read config file: %w", err)
	}

	if unmarshalErr := yaml.Unmarshal(raw, &cfg); unmarshalErr != nil {
		return AppConfig{}, fmt.Errorf("parse config file: %w", unmarshalErr)
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return AppConfig{}, validateErr
	}

	return cfg, nil
}

// Validate checks that the configuration names a known backend and log level
// and that the chosen backend has its connection settings filled in.
func (c AppConfig) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return errors.New("sqlite backend requires sqlite.path")
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("postgres backend requires postgres.dsn")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis backend requires redis.addr")
		}
	default:
		return fmt.Errorf("unknown backend %q, expected one of: memory, sqlite, postgres, redis", c.Backend)
	}

	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// SlogLevel maps the configured log level onto its slog equivalent. Unknown
// values fall back to info; Validate rejects them up front.
func (c AppConfig) SlogLevel() slog.Level {
	level, err := parseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}

	return level
}

func parseLogLevel(value string) (slog.Level, error) {
	switch value {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q, expected one of: debug, info, warn, error", value)
	}
}
