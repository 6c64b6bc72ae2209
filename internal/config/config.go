// Package config loads the gateway configuration from config/gateway.yaml
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the gateway configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Market  MarketConfig  `yaml:"market"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds listener settings.
type ServerConfig struct {
	HTTPAddr          string `yaml:"http_addr"`
	GRPCAddr          string `yaml:"grpc_addr"`
	RateLimitPerSec   int    `yaml:"rate_limit_per_sec"`
	RateLimitBurst    int    `yaml:"rate_limit_burst"`
	ShutdownTimeoutMS int    `yaml:"shutdown_timeout_ms"`
}

// StorageConfig selects and configures the catalog backing store.
type StorageConfig struct {
	Backend     string `yaml:"backend"` // file, memory or postgres
	DataDir     string `yaml:"data_dir"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// MarketConfig configures the synthetic price feed.
type MarketConfig struct {
	TickInterval    time.Duration `yaml:"tick_interval"`
	WalkBoundPct    float64       `yaml:"walk_bound_pct"`
	HistorySeedDays int           `yaml:"history_seed_days"`
}

// LoggingConfig configures the shared logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:          ":8080",
			GRPCAddr:          ":50051",
			RateLimitPerSec:   50,
			RateLimitBurst:    100,
			ShutdownTimeoutMS: 5000,
		},
		Storage: StorageConfig{
			Backend: "file",
			DataDir: "data",
		},
		Market: MarketConfig{
			TickInterval:    30 * time.Second,
			WalkBoundPct:    2.0,
			HistorySeedDays: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads config/gateway.yaml relative to the working directory.
func Load() (*Config, error) {
	return LoadFromPath(filepath.Join("config", "gateway.yaml"))
}

// LoadFromPath reads and validates the configuration at path. Missing fields
// fall back to defaults before env overrides are applied.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the configuration, falling back to defaults (still
// honoring env overrides) when the file is absent.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		cfg = Default()
		applyEnv(cfg)
	}
	return cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CATALOG_HTTP_ADDR"); v != "" {
		cfg.Server.HTTPAddr = v
	}
	if v := os.Getenv("CATALOG_GRPC_ADDR"); v != "" {
		cfg.Server.GRPCAddr = v
	}
	if v := os.Getenv("CATALOG_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("CATALOG_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("CATALOG_POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("CATALOG_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Market.TickInterval = d
		}
	}
	if v := os.Getenv("CATALOG_WALK_BOUND_PCT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Market.WalkBoundPct = f
		}
	}
	if v := os.Getenv("CATALOG_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CATALOG_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "memory", "postgres":
	default:
		return fmt.Errorf("storage backend %q is not one of file, memory, postgres", c.Storage.Backend)
	}
	if c.Storage.Backend == "postgres" && c.Storage.PostgresDSN == "" {
		return fmt.Errorf("postgres backend requires postgres_dsn")
	}
	if c.Storage.Backend == "file" && c.Storage.DataDir == "" {
		return fmt.Errorf("file backend requires data_dir")
	}
	if c.Market.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive")
	}
	if c.Market.WalkBoundPct <= 0 {
		return fmt.Errorf("walk_bound_pct must be positive")
	}
	if c.Market.HistorySeedDays < 0 {
		return fmt.Errorf("history_seed_days cannot be negative")
	}
	return nil
}
