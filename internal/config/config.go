// Package config provides configuration loading for the simulator.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all simulator settings.
type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Market    MarketConfig    `yaml:"market"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	Feed      FeedConfig      `yaml:"feed"`
}

// SchedulerConfig configures the tick loop.
type SchedulerConfig struct {
	// TickInterval is the wall time between ticks.
	TickInterval time.Duration `yaml:"tick_interval"`
	// AgentDelay is the pause between two agents of one token.
	AgentDelay time.Duration `yaml:"agent_delay"`
	// TokenDelay is the pause between two tokens in a tick.
	TokenDelay time.Duration `yaml:"token_delay"`
	// Workers bounds how many tokens are processed concurrently. 1 is sequential.
	Workers int `yaml:"workers"`
	// RegenerateMissingTimelines draws a fresh timeline on recovery when none was persisted.
	RegenerateMissingTimelines bool `yaml:"regenerate_missing_timelines"`
	// Seed seeds the random source. 0 seeds from the clock.
	Seed uint64 `yaml:"seed"`
}

// MarketConfig configures the bonding curve and token launch.
type MarketConfig struct {
	CurveK                   float64 `yaml:"curve_k"`
	CurveSlices              int     `yaml:"curve_slices"`
	DefaultTotalSupply       float64 `yaml:"default_total_supply"`
	DefaultInitialInvestment float64 `yaml:"default_initial_investment"`
	// MinimumPrePurchase is the currency the creator spends at launch.
	MinimumPrePurchase float64 `yaml:"minimum_pre_purchase"`
	MaxTotalSupply     float64 `yaml:"max_total_supply"`
	// SentimentEnabled turns on sentiment and herd adjustments to agent decisions.
	SentimentEnabled bool `yaml:"sentiment_enabled"`
}

// LifecycleConfig configures the termination rules.
type LifecycleConfig struct {
	StarvedProgress         float64       `yaml:"starved_progress"`
	StarvedMinTransactions  int64         `yaml:"starved_min_transactions"`
	InactivityWindow        time.Duration `yaml:"inactivity_window"`
	InactiveMinTransactions int64         `yaml:"inactive_min_transactions"`
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	// Backend is one of "memory", "postgres", "sqlite".
	Backend     string `yaml:"backend"`
	PostgresDSN string `yaml:"postgres_dsn"`
	// ClickhouseDSN enables the analytics mirror when set.
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
	SqlitePath    string `yaml:"sqlite_path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// FeedConfig configures live market update sinks.
type FeedConfig struct {
	WebsocketEnabled  bool   `yaml:"websocket_enabled"`
	NATSURL           string `yaml:"nats_url"`
	NATSSubjectPrefix string `yaml:"nats_subject_prefix"`
}

// Backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSqlite   = "sqlite"
)

// Default returns a Config with the standard settings.
func Default() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			TickInterval: 10 * time.Second,
			AgentDelay:   100 * time.Millisecond,
			TokenDelay:   200 * time.Millisecond,
			Workers:      1,
		},
		Market: MarketConfig{
			CurveK:                   4.0,
			CurveSlices:              100,
			DefaultTotalSupply:       1_000_000,
			DefaultInitialInvestment: 2_000,
			MinimumPrePurchase:       100,
			MaxTotalSupply:           1e9,
		},
		Lifecycle: LifecycleConfig{
			StarvedProgress:         0.01,
			StarvedMinTransactions:  10,
			InactivityWindow:        10 * time.Minute,
			InactiveMinTransactions: 5,
		},
		Storage: StorageConfig{
			Backend:    BackendMemory,
			SqlitePath: "memesim.db",
		},
		Server: ServerConfig{
			Addr: ":9090",
		},
		Feed: FeedConfig{
			WebsocketEnabled:  true,
			NATSSubjectPrefix: "memesim",
		},
	}
}

// Load returns defaults, overlaid by the file at path (if non-empty) and then by environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.Storage.PostgresDSN = os.ExpandEnv(cfg.Storage.PostgresDSN)
	cfg.Storage.ClickhouseDSN = os.ExpandEnv(cfg.Storage.ClickhouseDSN)
	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Scheduler.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %v", c.Scheduler.TickInterval)
	}
	if c.Scheduler.AgentDelay < 0 || c.Scheduler.TokenDelay < 0 {
		return fmt.Errorf("agent_delay and token_delay must be non-negative")
	}
	if c.Scheduler.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Scheduler.Workers)
	}
	if c.Market.CurveK <= 0 {
		return fmt.Errorf("curve_k must be positive, got %f", c.Market.CurveK)
	}
	if c.Market.CurveSlices < 1 {
		return fmt.Errorf("curve_slices must be at least 1, got %d", c.Market.CurveSlices)
	}
	if c.Market.DefaultTotalSupply <= 0 || c.Market.DefaultTotalSupply > c.Market.MaxTotalSupply {
		return fmt.Errorf("default_total_supply must be in (0, %g], got %g", c.Market.MaxTotalSupply, c.Market.DefaultTotalSupply)
	}
	if c.Market.DefaultInitialInvestment <= 0 {
		return fmt.Errorf("default_initial_investment must be positive, got %f", c.Market.DefaultInitialInvestment)
	}
	if c.Market.MinimumPrePurchase < 0 {
		return fmt.Errorf("minimum_pre_purchase must be non-negative, got %f", c.Market.MinimumPrePurchase)
	}
	if c.Lifecycle.StarvedProgress < 0 || c.Lifecycle.StarvedProgress > 1 {
		return fmt.Errorf("starved_progress must be between 0 and 1, got %f", c.Lifecycle.StarvedProgress)
	}
	if c.Lifecycle.InactivityWindow <= 0 {
		return fmt.Errorf("inactivity_window must be positive, got %v", c.Lifecycle.InactivityWindow)
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("postgres_dsn is required for the postgres backend")
		}
	case BackendSqlite:
		if c.Storage.SqlitePath == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (valid: memory, postgres, sqlite)", c.Storage.Backend)
	}

	return nil
}

// applyEnvOverrides applies MEMESIM_* environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MEMESIM_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Scheduler.TickInterval = d
		}
	}
	if v := os.Getenv("MEMESIM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scheduler.Workers = n
		}
	}
	if v := os.Getenv("MEMESIM_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Scheduler.Seed = n
		}
	}
	if v := os.Getenv("MEMESIM_REGENERATE_MISSING_TIMELINES"); v != "" {
		cfg.Scheduler.RegenerateMissingTimelines = v == "true" || v == "1"
	}
	if v := os.Getenv("MEMESIM_SENTIMENT_ENABLED"); v != "" {
		cfg.Market.SentimentEnabled = v == "true" || v == "1"
	}
	if v := os.Getenv("MEMESIM_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("MEMESIM_POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("MEMESIM_CLICKHOUSE_DSN"); v != "" {
		cfg.Storage.ClickhouseDSN = v
	}
	if v := os.Getenv("MEMESIM_SQLITE_PATH"); v != "" {
		cfg.Storage.SqlitePath = v
	}
	if v := os.Getenv("MEMESIM_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MEMESIM_NATS_URL"); v != "" {
		cfg.Feed.NATSURL = v
	}
}
