package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies MAKERBOT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load. A missing file is not an
// error: the defaults plus env overrides apply.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known MAKERBOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Market ──
	setStr(&cfg.Market.Symbol, "MAKERBOT_MARKET_SYMBOL")
	setStr(&cfg.Market.Precision, "MAKERBOT_MARKET_PRECISION")
	setInt(&cfg.Market.Depth, "MAKERBOT_MARKET_DEPTH")
	setStr(&cfg.Market.Source, "MAKERBOT_MARKET_SOURCE")
	setStr(&cfg.Market.BaseURL, "MAKERBOT_MARKET_BASE_URL")
	setStr(&cfg.Market.WsURL, "MAKERBOT_MARKET_WS_URL")
	setDuration(&cfg.Market.FetchTimeout, "MAKERBOT_MARKET_FETCH_TIMEOUT")

	// ── Ledger ──
	setFloat64(&cfg.Ledger.Quote, "MAKERBOT_LEDGER_QUOTE")
	setFloat64(&cfg.Ledger.Base, "MAKERBOT_LEDGER_BASE")

	// ── Maker ──
	setInt(&cfg.Maker.OrdersPerSide, "MAKERBOT_MAKER_ORDERS_PER_SIDE")
	setFloat64(&cfg.Maker.Deviation, "MAKERBOT_MAKER_DEVIATION")
	setFloat64(&cfg.Maker.SpreadTolerance, "MAKERBOT_MAKER_SPREAD_TOLERANCE")
	setFloat64(&cfg.Maker.MinBidQuote, "MAKERBOT_MAKER_MIN_BID_QUOTE")
	setFloat64(&cfg.Maker.MinAskBase, "MAKERBOT_MAKER_MIN_ASK_BASE")

	// ── Loop ──
	setDuration(&cfg.Loop.PollInterval, "MAKERBOT_LOOP_POLL_INTERVAL")
	setDuration(&cfg.Loop.ReportInterval, "MAKERBOT_LOOP_REPORT_INTERVAL")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "MAKERBOT_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "MAKERBOT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "MAKERBOT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "MAKERBOT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "MAKERBOT_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "MAKERBOT_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "MAKERBOT_REDIS_TLS_ENABLED")
	setStr(&cfg.Redis.Stream, "MAKERBOT_REDIS_STREAM")
	setInt(&cfg.Redis.StreamMaxLen, "MAKERBOT_REDIS_STREAM_MAX_LEN")

	// ── Postgres ──
	setBool(&cfg.Postgres.Enabled, "MAKERBOT_POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "MAKERBOT_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "MAKERBOT_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "MAKERBOT_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "MAKERBOT_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "MAKERBOT_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "MAKERBOT_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "MAKERBOT_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "MAKERBOT_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "MAKERBOT_POSTGRES_POOL_MIN_CONNS")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "MAKERBOT_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "MAKERBOT_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "MAKERBOT_S3_REGION")
	setStr(&cfg.S3.Bucket, "MAKERBOT_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "MAKERBOT_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "MAKERBOT_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "MAKERBOT_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "MAKERBOT_S3_FORCE_PATH_STYLE")
	setStr(&cfg.S3.Prefix, "MAKERBOT_S3_PREFIX")

	// ── Report ──
	setStringSlice(&cfg.Report.Events, "MAKERBOT_REPORT_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "MAKERBOT_MODE")
	setStr(&cfg.LogLevel, "MAKERBOT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
