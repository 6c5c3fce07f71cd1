// Package config defines the top-level configuration for the venuelink engine
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by VENUELINK_* environment
// variables.
type Config struct {
	Kalshi     KalshiConfig     `toml:"kalshi"`
	Polymarket PolymarketConfig `toml:"polymarket"`
	Postgres   PostgresConfig   `toml:"postgres"`
	Redis      RedisConfig      `toml:"redis"`
	S3         S3Config         `toml:"s3"`
	Engine     EngineConfig     `toml:"engine"`
	Validator  ValidatorConfig  `toml:"validator"`
	Notify     NotifyConfig     `toml:"notify"`
	LogLevel   string           `toml:"log_level"`
}

// KalshiConfig holds Kalshi exchange API parameters.
type KalshiConfig struct {
	BaseURL           string `toml:"base_url"`
	ApiKey            string `toml:"api_key"`
	RsaPrivateKeyPath string `toml:"rsa_private_key_path"`
}

// PolymarketConfig holds Polymarket Gamma API parameters.
type PolymarketConfig struct {
	GammaHost string `toml:"gamma_host"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters. Redis is optional: with
// Enabled false the engine queries postgres directly on every run.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds object storage parameters for the run-report archive.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// EngineConfig bounds matching runs.
type EngineConfig struct {
	SourceVenue   string   `toml:"source_venue"`
	TargetVenue   string   `toml:"target_venue"`
	Lookback      duration `toml:"lookback"`
	FetchLimit    int      `toml:"fetch_limit"`
	Workers       int      `toml:"workers"`
	MaxPerSource  int      `toml:"max_per_source"`
	MaxPerTarget  int      `toml:"max_per_target"`
	MinWinnerGap  float64  `toml:"min_winner_gap"`
	Topics        []string `toml:"topics"`
	SyncMaxMarkets int      `toml:"sync_max_markets"`
}

// ValidatorConfig holds the optional external validator parameters.
type ValidatorConfig struct {
	Enabled       bool    `toml:"enabled"`
	BaseURL       string  `toml:"base_url"`
	ApiKey        string  `toml:"api_key"`
	MinScore      float64 `toml:"min_score"`
	BatchSize     int     `toml:"batch_size"`
	RatePerMinute int     `toml:"rate_per_minute"`
	DailyBudget   int     `toml:"daily_budget"`
	MaxLinks      int     `toml:"max_links"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration wraps time.Duration so TOML can decode strings like "48h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Kalshi: KalshiConfig{
			BaseURL: "https://api.elections.kalshi.com/trade-api/v2",
		},
		Polymarket: PolymarketConfig{
			GammaHost: "https://gamma-api.polymarket.com",
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "venuelink",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Enabled:    true,
			Addr:       "localhost:6379",
			PoolSize:   20,
			MaxRetries: 3,
		},
		S3: S3Config{
			Enabled:        false,
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "venuelink-runs",
			ForcePathStyle: true,
		},
		Engine: EngineConfig{
			SourceVenue:   "kalshi",
			TargetVenue:   "polymarket",
			Lookback:      duration{72 * time.Hour},
			FetchLimit:    2000,
			Workers:       4,
			MaxPerSource:  1,
			MaxPerTarget:  1,
			MinWinnerGap:  0.05,
			SyncMaxMarkets: 5000,
		},
		Validator: ValidatorConfig{
			Enabled:       false,
			MinScore:      0.6,
			BatchSize:     10,
			RatePerMinute: 30,
			DailyBudget:   500,
			MaxLinks:      200,
		},
		Notify: NotifyConfig{
			Events: []string{"run_completed", "run_failed"},
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validVenues enumerates the venues the engine can link.
var validVenues = map[string]bool{
	"kalshi":     true,
	"polymarket": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Kalshi.BaseURL == "" {
		errs = append(errs, "kalshi: base_url must not be empty")
	}
	if c.Polymarket.GammaHost == "" {
		errs = append(errs, "polymarket: gamma_host must not be empty")
	}

	if strings.TrimSpace(c.Postgres.DSN) == "" {
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
	if c.Postgres.PoolMaxConns < 1 {
		errs = append(errs, "postgres: pool_max_conns must be >= 1")
	}
	if c.Postgres.PoolMinConns < 0 {
		errs = append(errs, "postgres: pool_min_conns must be >= 0")
	}
	if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
		errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when enabled")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty when enabled")
		}
	}

	if !validVenues[c.Engine.SourceVenue] {
		errs = append(errs, fmt.Sprintf("engine: unknown source_venue %q (valid: kalshi, polymarket)", c.Engine.SourceVenue))
	}
	if !validVenues[c.Engine.TargetVenue] {
		errs = append(errs, fmt.Sprintf("engine: unknown target_venue %q (valid: kalshi, polymarket)", c.Engine.TargetVenue))
	}
	if c.Engine.SourceVenue == c.Engine.TargetVenue {
		errs = append(errs, "engine: source_venue and target_venue must differ")
	}
	if c.Engine.Lookback.Duration <= 0 {
		errs = append(errs, "engine: lookback must be > 0")
	}
	if c.Engine.Workers < 1 {
		errs = append(errs, "engine: workers must be >= 1")
	}
	if c.Engine.MaxPerSource < 1 {
		errs = append(errs, "engine: max_per_source must be >= 1")
	}
	if c.Engine.MaxPerTarget < 1 {
		errs = append(errs, "engine: max_per_target must be >= 1")
	}
	if c.Engine.MinWinnerGap < 0 || c.Engine.MinWinnerGap > 1 {
		errs = append(errs, fmt.Sprintf("engine: min_winner_gap must be in [0,1], got %g", c.Engine.MinWinnerGap))
	}

	if c.Validator.Enabled {
		if c.Validator.BaseURL == "" {
			errs = append(errs, "validator: base_url must not be empty when enabled")
		}
		if c.Validator.MinScore < 0 || c.Validator.MinScore > 1 {
			errs = append(errs, fmt.Sprintf("validator: min_score must be in [0,1], got %g", c.Validator.MinScore))
		}
		if c.Validator.BatchSize < 1 {
			errs = append(errs, "validator: batch_size must be >= 1")
		}
		if c.Validator.RatePerMinute < 1 {
			errs = append(errs, "validator: rate_per_minute must be >= 1")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
