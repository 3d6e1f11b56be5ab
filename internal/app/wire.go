package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	s3blob "github.com/sntlabs/evetradetool/internal/blob/s3"
	"github.com/sntlabs/evetradetool/internal/cache/redis"
	"github.com/sntlabs/evetradetool/internal/config"
	"github.com/sntlabs/evetradetool/internal/domain"
	"github.com/sntlabs/evetradetool/internal/notify"
	"github.com/sntlabs/evetradetool/internal/platform/esi"
	"github.com/sntlabs/evetradetool/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency that the application
// modes need. It is constructed by Wire and torn down by the returned
// cleanup function. Optional collaborators stay nil when their backend is
// disabled; the service layer treats nil as "skip".
type Dependencies struct {
	// ESI clients
	ESIClient      *esi.Client
	MarketClient   *esi.MarketClient
	UniverseClient *esi.UniverseClient
	ItemsClient    *esi.ItemsClient

	// Caches & messaging (nil when redis is disabled)
	ReportCache domain.ReportCache
	NameCache   domain.NameCache
	RateLimiter domain.RateLimiter
	SignalBus   domain.SignalBus

	// Persistence (nil when postgres is disabled)
	ReportStore domain.ReportStore

	// Blob storage (nil when s3 is disabled)
	BlobWriter domain.BlobWriter
	Archiver   domain.SnapshotArchiver

	// Notifications
	Notifier *notify.Notifier
}

// needsPostgres returns true for modes that persist run history.
func needsPostgres(mode string) bool {
	switch mode {
	case "server", "full":
		return true
	default:
		return false
	}
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}
	mode := strings.ToLower(cfg.Mode)

	// --- Redis ---
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

		deps.ReportCache = redis.NewReportCache(redisClient)
		deps.NameCache = redis.NewNameCache(redisClient)
		deps.RateLimiter = redis.NewRateLimiter(redisClient).WithWaitBudget(cfg.ESI.RateLimitPerSec)
		deps.SignalBus = redis.NewSignalBus(redisClient)
	}

	// --- ESI clients ---
	deps.ESIClient = esi.NewClient(cfg.ESI.BaseURL)
	if deps.RateLimiter != nil && cfg.ESI.RateLimitPerSec > 0 {
		deps.ESIClient.WithLimiter(deps.RateLimiter)
	}
	deps.MarketClient = esi.NewMarketClient(deps.ESIClient)
	deps.UniverseClient = esi.NewUniverseClient(deps.ESIClient)
	deps.ItemsClient = esi.NewItemsClient(deps.ESIClient)

	// --- PostgreSQL (only for modes that persist run history) ---
	if cfg.Postgres.Enabled && needsPostgres(mode) {
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

		deps.ReportStore = postgres.NewReportStore(pgClient.Pool())
	}

	// --- S3 blob storage ---
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
		closers = append(closers, func() { _ = s3Client.Close() })

		deps.BlobWriter = s3blob.NewWriter(s3Client)
		deps.Archiver = s3blob.NewSnapshotArchiver(deps.BlobWriter)
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
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, slog.Default())

	return deps, cleanup, nil
}
