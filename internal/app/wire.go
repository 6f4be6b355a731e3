package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/quantsim/makerbot/internal/blob/s3"
	"github.com/quantsim/makerbot/internal/cache/redis"
	"github.com/quantsim/makerbot/internal/config"
	"github.com/quantsim/makerbot/internal/domain"
	"github.com/quantsim/makerbot/internal/feed"
	"github.com/quantsim/makerbot/internal/maker"
	"github.com/quantsim/makerbot/internal/report"
	"github.com/quantsim/makerbot/internal/store/postgres"
)

// Dependencies bundles everything the application modes need to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	// Engine is the market-making cycle engine.
	Engine *maker.Engine

	// WSFeed is non-nil when the streaming source is configured; its Run loop
	// must be started alongside the scheduler.
	WSFeed *feed.WSSource

	// Archiver is non-nil when S3 archival is enabled; Flush is called on
	// shutdown.
	Archiver *s3blob.Archiver
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Reporting sinks ---
	sinks := []domain.Sink{report.NewLogSink(logger)}

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

		sinks = append(sinks, redis.NewEventStream(redisClient, cfg.Redis.Stream, int64(cfg.Redis.StreamMaxLen)))
	}

	if cfg.Postgres.Enabled {
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

		journal := postgres.NewEventJournal(pgClient.Pool())
		if err := journal.EnsureSchema(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres schema: %w", err)
		}
		sinks = append(sinks, journal)
	}

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

		deps.Archiver = s3blob.NewArchiver(s3Client, cfg.S3.Prefix)
		sinks = append(sinks, deps.Archiver)
	}

	dispatcher := report.NewDispatcher(sinks, cfg.Report.Events, logger)

	// --- Snapshot source ---
	var source domain.SnapshotSource
	switch cfg.Market.Source {
	case "ws":
		wsFeed := feed.NewWSSource(feed.WSSourceConfig{
			URL:       cfg.Market.WsURL,
			Symbol:    cfg.Market.Symbol,
			Precision: cfg.Market.Precision,
			Depth:     cfg.Market.Depth,
		}, logger)
		deps.WSFeed = wsFeed
		source = wsFeed
	default:
		source = feed.NewHTTPSource(feed.HTTPSourceConfig{
			BaseURL:   cfg.Market.BaseURL,
			Symbol:    cfg.Market.Symbol,
			Precision: cfg.Market.Precision,
			Depth:     cfg.Market.Depth,
			Timeout:   cfg.Market.FetchTimeout.Duration,
		})
	}

	// --- Engine ---
	deps.Engine = maker.NewEngine(maker.Config{
		InitialQuote:    cfg.Ledger.Quote,
		InitialBase:     cfg.Ledger.Base,
		OrdersPerSide:   cfg.Maker.OrdersPerSide,
		Deviation:       cfg.Maker.Deviation,
		SpreadTolerance: cfg.Maker.SpreadTolerance,
		MinBidQuote:     cfg.Maker.MinBidQuote,
		MinAskBase:      cfg.Maker.MinAskBase,
		FetchTimeout:    cfg.Market.FetchTimeout.Duration,
	}, source, dispatcher, maker.SystemRand{}, logger)

	return deps, cleanup, nil
}
