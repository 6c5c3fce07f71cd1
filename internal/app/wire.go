package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	s3blob "github.com/pmxlabs/venuelink/internal/blob/s3"
	"github.com/pmxlabs/venuelink/internal/cache/redis"
	"github.com/pmxlabs/venuelink/internal/classify"
	"github.com/pmxlabs/venuelink/internal/config"
	"github.com/pmxlabs/venuelink/internal/domain"
	"github.com/pmxlabs/venuelink/internal/extract"
	"github.com/pmxlabs/venuelink/internal/notify"
	"github.com/pmxlabs/venuelink/internal/platform/kalshi"
	"github.com/pmxlabs/venuelink/internal/platform/polymarket"
	"github.com/pmxlabs/venuelink/internal/store/postgres"
	"github.com/pmxlabs/venuelink/internal/validator"
)

// Dependencies bundles every concrete collaborator the commands need. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	// Stores
	MarketStore domain.MarketStore
	LinkStore   domain.LinkStore
	SeriesStore domain.SeriesStore

	// Caches (nil when redis is disabled)
	SeriesCache      domain.SeriesCache
	MarketListCache  domain.MarketListCache
	ValidationBudget domain.ValidationBudget

	// Engine core
	Extractor  *extract.Extractor
	Classifier *classify.Classifier

	// Venue adapters
	Kalshi *kalshi.Client
	Gamma  *polymarket.GammaClient

	// Optional collaborators
	Validator domain.LinkValidator
	Archiver  *s3blob.RunArchiver
	Notifier  *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function to release
// resources on shutdown.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		Extractor:  extract.New(extract.NewRegistry()),
		Classifier: classify.New(),
	}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Postgres.DSN,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Database: cfg.Postgres.Database,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.PoolMaxConns,
		MinConns: cfg.Postgres.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Postgres.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}

	pool := pgClient.Pool()
	deps.MarketStore = postgres.NewMarketStore(pool)
	deps.LinkStore = postgres.NewLinkStore(pool)
	deps.SeriesStore = postgres.NewSeriesStore(pool)

	// --- Redis (optional) ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.SeriesCache = redis.NewSeriesCache(redisClient)
		deps.MarketListCache = redis.NewMarketListCache(redisClient)
		deps.ValidationBudget = redis.NewValidationBudget(redisClient, cfg.Validator.DailyBudget)
	}

	// --- Venue adapters ---
	deps.Kalshi = kalshi.NewClient(cfg.Kalshi.BaseURL, cfg.Kalshi.ApiKey)
	if cfg.Kalshi.RsaPrivateKeyPath != "" {
		pemBytes, err := os.ReadFile(cfg.Kalshi.RsaPrivateKeyPath)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: read kalshi key: %w", err)
		}
		if err := deps.Kalshi.SetRSAPrivateKey(pemBytes); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: kalshi key: %w", err)
		}
	}
	deps.Gamma = polymarket.NewGammaClient(cfg.Polymarket.GammaHost)

	// --- External validator (optional) ---
	if cfg.Validator.Enabled {
		deps.Validator = validator.NewClient(cfg.Validator.BaseURL, cfg.Validator.ApiKey)
	}

	// --- S3 run archive (optional) ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		deps.Archiver = s3blob.NewRunArchiver(s3Client)
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}
