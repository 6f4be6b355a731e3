// Package config defines the top-level configuration for the market-making
// bot and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by MAKERBOT_* environment
// variables.
type Config struct {
	Market   MarketConfig   `toml:"market"`
	Ledger   LedgerConfig   `toml:"ledger"`
	Maker    MakerConfig    `toml:"maker"`
	Loop     LoopConfig     `toml:"loop"`
	Redis    RedisConfig    `toml:"redis"`
	Postgres PostgresConfig `toml:"postgres"`
	S3       S3Config       `toml:"s3"`
	Report   ReportConfig   `toml:"report"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// MarketConfig holds the snapshot source parameters.
type MarketConfig struct {
	// Symbol is the market pair, e.g. "ETH:USDT".
	Symbol string `toml:"symbol"`
	// Precision is the book aggregation level, e.g. "P0".
	Precision string `toml:"precision"`
	// Depth is the number of levels requested per side.
	Depth int `toml:"depth"`
	// Source selects the snapshot transport: "http" (polling REST) or "ws"
	// (streaming websocket).
	Source       string   `toml:"source"`
	BaseURL      string   `toml:"base_url"`
	WsURL        string   `toml:"ws_url"`
	FetchTimeout duration `toml:"fetch_timeout"`
}

// LedgerConfig holds the starting balances.
type LedgerConfig struct {
	Quote float64 `toml:"quote"`
	Base  float64 `toml:"base"`
}

// MakerConfig holds order generation and evaluation parameters.
type MakerConfig struct {
	// OrdersPerSide is the number of orders generated per side per cycle.
	OrdersPerSide int `toml:"orders_per_side"`
	// Deviation is the half-width of the order price band as a fraction of
	// the target price.
	Deviation float64 `toml:"deviation"`
	// SpreadTolerance is the drift fraction past the best price at which a
	// resting order is cancelled.
	SpreadTolerance float64 `toml:"spread_tolerance"`
	// MinBidQuote is the minimum tradable bid amount in quote currency.
	MinBidQuote float64 `toml:"min_bid_quote"`
	// MinAskBase is the minimum tradable ask amount in base asset.
	MinAskBase float64 `toml:"min_ask_base"`
}

// LoopConfig holds the two scheduler intervals.
type LoopConfig struct {
	PollInterval   duration `toml:"poll_interval"`
	ReportInterval duration `toml:"report_interval"`
}

// RedisConfig holds Redis connection parameters for the event stream sink.
type RedisConfig struct {
	Enabled      bool   `toml:"enabled"`
	Addr         string `toml:"addr"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"pool_size"`
	MaxRetries   int    `toml:"max_retries"`
	TLSEnabled   bool   `toml:"tls_enabled"`
	Stream       string `toml:"stream"`
	StreamMaxLen int    `toml:"stream_max_len"`
}

// PostgresConfig holds PostgreSQL connection parameters for the event journal.
type PostgresConfig struct {
	Enabled      bool   `toml:"enabled"`
	DSN          string `toml:"dsn"`
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Database     string `toml:"database"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	SSLMode      string `toml:"ssl_mode"`
	PoolMaxConns int    `toml:"pool_max_conns"`
	PoolMinConns int    `toml:"pool_min_conns"`
}

// S3Config holds S3-compatible object storage parameters for the session
// archiver.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
	Prefix         string `toml:"prefix"`
}

// ReportConfig controls which event types reach the sinks. An empty list
// allows all.
type ReportConfig struct {
	Events []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5s", "2m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5s" or "2m".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Market: MarketConfig{
			Symbol:       "ETH:USDT",
			Precision:    "P0",
			Depth:        25,
			Source:       "http",
			BaseURL:      "https://api.deversifi.com",
			WsURL:        "wss://api.deversifi.com/market-data/ws",
			FetchTimeout: duration{10 * time.Second},
		},
		Ledger: LedgerConfig{
			Quote: 20,
			Base:  0.1,
		},
		Maker: MakerConfig{
			OrdersPerSide:   5,
			Deviation:       0.05,
			SpreadTolerance: 0.05,
			MinBidQuote:     0.01,
			MinAskBase:      0.00001,
		},
		Loop: LoopConfig{
			PollInterval:   duration{5 * time.Second},
			ReportInterval: duration{12 * time.Second},
		},
		Redis: RedisConfig{
			Enabled:      false,
			Addr:         "localhost:6379",
			DB:           0,
			PoolSize:     20,
			MaxRetries:   3,
			Stream:       "makerbot:events",
			StreamMaxLen: 10000,
		},
		Postgres: PostgresConfig{
			Enabled:      false,
			Host:         "localhost",
			Port:         5432,
			Database:     "makerbot",
			User:         "postgres",
			SSLMode:      "disable",
			PoolMaxConns: 10,
			PoolMinConns: 2,
		},
		S3: S3Config{
			Enabled:        false,
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "makerbot-data",
			UseSSL:         false,
			ForcePathStyle: true,
			Prefix:         "sessions",
		},
		Report: ReportConfig{
			Events: []string{},
		},
		Mode:     "run",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"run":  true,
	"once": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: run, once)", c.Mode))
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Market
	switch c.Market.Source {
	case "http":
		if c.Market.BaseURL == "" {
			errs = append(errs, "market: base_url must not be empty for http source")
		}
	case "ws":
		if c.Market.WsURL == "" {
			errs = append(errs, "market: ws_url must not be empty for ws source")
		}
	default:
		errs = append(errs, fmt.Sprintf("market: unknown source %q (valid: http, ws)", c.Market.Source))
	}
	if c.Market.Symbol == "" {
		errs = append(errs, "market: symbol must not be empty")
	}
	if c.Market.Depth <= 0 {
		errs = append(errs, fmt.Sprintf("market: depth must be positive, got %d", c.Market.Depth))
	}
	if c.Market.FetchTimeout.Duration <= 0 {
		errs = append(errs, "market: fetch_timeout must be positive")
	}

	// Ledger
	if c.Ledger.Quote < 0 {
		errs = append(errs, "ledger: quote balance must not be negative")
	}
	if c.Ledger.Base < 0 {
		errs = append(errs, "ledger: base balance must not be negative")
	}

	// Maker
	if c.Maker.OrdersPerSide < 1 {
		errs = append(errs, "maker: orders_per_side must be >= 1")
	}
	if c.Maker.Deviation <= 0 || c.Maker.Deviation >= 1 {
		errs = append(errs, "maker: deviation must be in (0, 1)")
	}
	if c.Maker.SpreadTolerance <= 0 || c.Maker.SpreadTolerance >= 1 {
		errs = append(errs, "maker: spread_tolerance must be in (0, 1)")
	}
	if c.Maker.MinBidQuote <= 0 {
		errs = append(errs, "maker: min_bid_quote must be > 0")
	}
	if c.Maker.MinAskBase <= 0 {
		errs = append(errs, "maker: min_ask_base must be > 0")
	}

	// Loop
	if c.Loop.PollInterval.Duration <= 0 {
		errs = append(errs, "loop: poll_interval must be positive")
	}
	if c.Loop.ReportInterval.Duration <= 0 {
		errs = append(errs, "loop: report_interval must be positive")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
		if c.Redis.Stream == "" {
			errs = append(errs, "redis: stream must not be empty when enabled")
		}
	}

	// Postgres
	if c.Postgres.Enabled && strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Host == "" {
			errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
		}
		if c.Postgres.Database == "" {
			errs = append(errs, "postgres: database must not be empty")
		}
	}
	if c.Postgres.Enabled && c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
		errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
	}

	// S3
	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when enabled")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty when enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
