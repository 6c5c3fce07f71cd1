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
// built-in defaults, applies VENUELINK_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known VENUELINK_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Kalshi ──
	setStr(&cfg.Kalshi.BaseURL, "VENUELINK_KALSHI_BASE_URL")
	setStr(&cfg.Kalshi.ApiKey, "VENUELINK_KALSHI_API_KEY")
	setStr(&cfg.Kalshi.RsaPrivateKeyPath, "VENUELINK_KALSHI_RSA_PRIVATE_KEY_PATH")

	// ── Polymarket ──
	setStr(&cfg.Polymarket.GammaHost, "VENUELINK_POLYMARKET_GAMMA_HOST")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "VENUELINK_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "VENUELINK_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "VENUELINK_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "VENUELINK_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "VENUELINK_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "VENUELINK_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "VENUELINK_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "VENUELINK_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "VENUELINK_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "VENUELINK_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "VENUELINK_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "VENUELINK_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "VENUELINK_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "VENUELINK_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "VENUELINK_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "VENUELINK_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "VENUELINK_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "VENUELINK_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "VENUELINK_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "VENUELINK_S3_REGION")
	setStr(&cfg.S3.Bucket, "VENUELINK_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "VENUELINK_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "VENUELINK_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "VENUELINK_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "VENUELINK_S3_FORCE_PATH_STYLE")

	// ── Engine ──
	setStr(&cfg.Engine.SourceVenue, "VENUELINK_ENGINE_SOURCE_VENUE")
	setStr(&cfg.Engine.TargetVenue, "VENUELINK_ENGINE_TARGET_VENUE")
	setDuration(&cfg.Engine.Lookback, "VENUELINK_ENGINE_LOOKBACK")
	setInt(&cfg.Engine.FetchLimit, "VENUELINK_ENGINE_FETCH_LIMIT")
	setInt(&cfg.Engine.Workers, "VENUELINK_ENGINE_WORKERS")
	setInt(&cfg.Engine.MaxPerSource, "VENUELINK_ENGINE_MAX_PER_SOURCE")
	setInt(&cfg.Engine.MaxPerTarget, "VENUELINK_ENGINE_MAX_PER_TARGET")
	setFloat64(&cfg.Engine.MinWinnerGap, "VENUELINK_ENGINE_MIN_WINNER_GAP")
	setStringSlice(&cfg.Engine.Topics, "VENUELINK_ENGINE_TOPICS")
	setInt(&cfg.Engine.SyncMaxMarkets, "VENUELINK_ENGINE_SYNC_MAX_MARKETS")

	// ── Validator ──
	setBool(&cfg.Validator.Enabled, "VENUELINK_VALIDATOR_ENABLED")
	setStr(&cfg.Validator.BaseURL, "VENUELINK_VALIDATOR_BASE_URL")
	setStr(&cfg.Validator.ApiKey, "VENUELINK_VALIDATOR_API_KEY")
	setFloat64(&cfg.Validator.MinScore, "VENUELINK_VALIDATOR_MIN_SCORE")
	setInt(&cfg.Validator.BatchSize, "VENUELINK_VALIDATOR_BATCH_SIZE")
	setInt(&cfg.Validator.RatePerMinute, "VENUELINK_VALIDATOR_RATE_PER_MINUTE")
	setInt(&cfg.Validator.DailyBudget, "VENUELINK_VALIDATOR_DAILY_BUDGET")
	setInt(&cfg.Validator.MaxLinks, "VENUELINK_VALIDATOR_MAX_LINKS")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "VENUELINK_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "VENUELINK_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "VENUELINK_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "VENUELINK_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "VENUELINK_LOG_LEVEL")
}

// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.

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
