package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "ETH:USDT", cfg.Market.Symbol)
	assert.Equal(t, "http", cfg.Market.Source)
	assert.Equal(t, 20.0, cfg.Ledger.Quote)
	assert.Equal(t, 0.1, cfg.Ledger.Base)
	assert.Equal(t, 5, cfg.Maker.OrdersPerSide)
	assert.Equal(t, 0.05, cfg.Maker.Deviation)
	assert.Equal(t, 0.01, cfg.Maker.MinBidQuote)
	assert.Equal(t, 0.00001, cfg.Maker.MinAskBase)
	assert.Equal(t, 5*time.Second, cfg.Loop.PollInterval.Duration)
	assert.Equal(t, 12*time.Second, cfg.Loop.ReportInterval.Duration)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Postgres.Enabled)
	assert.False(t, cfg.S3.Enabled)
	assert.Equal(t, "run", cfg.Mode)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *cfg)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "once"

[market]
symbol = "BTC:USDT"
fetch_timeout = "3s"

[maker]
orders_per_side = 3

[loop]
poll_interval = "2s"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "once", cfg.Mode)
	assert.Equal(t, "BTC:USDT", cfg.Market.Symbol)
	assert.Equal(t, 3*time.Second, cfg.Market.FetchTimeout.Duration)
	assert.Equal(t, 3, cfg.Maker.OrdersPerSide)
	assert.Equal(t, 2*time.Second, cfg.Loop.PollInterval.Duration)

	// Untouched sections keep their defaults.
	assert.Equal(t, 20.0, cfg.Ledger.Quote)
	assert.Equal(t, 12*time.Second, cfg.Loop.ReportInterval.Duration)
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("MAKERBOT_MARKET_SYMBOL", "SOL:USDT")
	t.Setenv("MAKERBOT_LEDGER_QUOTE", "150.5")
	t.Setenv("MAKERBOT_MAKER_ORDERS_PER_SIDE", "7")
	t.Setenv("MAKERBOT_LOOP_POLL_INTERVAL", "250ms")
	t.Setenv("MAKERBOT_REDIS_ENABLED", "true")
	t.Setenv("MAKERBOT_REPORT_EVENTS", "order_filled, order_cancelled")
	t.Setenv("MAKERBOT_MODE", "once")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "SOL:USDT", cfg.Market.Symbol)
	assert.Equal(t, 150.5, cfg.Ledger.Quote)
	assert.Equal(t, 7, cfg.Maker.OrdersPerSide)
	assert.Equal(t, 250*time.Millisecond, cfg.Loop.PollInterval.Duration)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"order_filled", "order_cancelled"}, cfg.Report.Events)
	assert.Equal(t, "once", cfg.Mode)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[market]\nsymbol = \"BTC:USDT\"\n"), 0o644))
	t.Setenv("MAKERBOT_MARKET_SYMBOL", "SOL:USDT")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "SOL:USDT", cfg.Market.Symbol)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown mode", func(c *Config) { c.Mode = "dryrun" }, "unknown mode"},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }, "unknown log_level"},
		{"unknown source", func(c *Config) { c.Market.Source = "ftp" }, "unknown source"},
		{"missing base url", func(c *Config) { c.Market.BaseURL = "" }, "base_url"},
		{"ws without url", func(c *Config) { c.Market.Source = "ws"; c.Market.WsURL = "" }, "ws_url"},
		{"zero depth", func(c *Config) { c.Market.Depth = 0 }, "depth"},
		{"negative quote", func(c *Config) { c.Ledger.Quote = -1 }, "quote balance"},
		{"zero orders", func(c *Config) { c.Maker.OrdersPerSide = 0 }, "orders_per_side"},
		{"deviation out of range", func(c *Config) { c.Maker.Deviation = 1.5 }, "deviation"},
		{"zero min bid", func(c *Config) { c.Maker.MinBidQuote = 0 }, "min_bid_quote"},
		{"zero poll interval", func(c *Config) { c.Loop.PollInterval.Duration = 0 }, "poll_interval"},
		{"redis enabled no addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, "redis: addr"},
		{"postgres enabled no host", func(c *Config) { c.Postgres.Enabled = true; c.Postgres.Host = "" }, "postgres: host"},
		{"s3 enabled no bucket", func(c *Config) { c.S3.Enabled = true; c.S3.Bucket = "" }, "s3: bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "dryrun"
	cfg.Market.Depth = -1
	cfg.Maker.OrdersPerSide = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "depth")
	assert.Contains(t, err.Error(), "orders_per_side")
}
