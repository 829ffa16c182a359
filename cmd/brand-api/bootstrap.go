// cmd/brand-api/bootstrap.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/agents"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/cache"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/database"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/logger"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/observability"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/news"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/repository"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/service"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func connectPostgres(ctx context.Context, cfg config.PostgresConfig, zapLog *zap.Logger) (*database.PostgresClient, error) {
	var pg *database.PostgresClient
	err := retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg)
		if err != nil {
			return err
		}
		if err := pg.Ping(ctx); err != nil {
			_ = pg.Close()
			return err
		}
		return nil
	}, 10, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		return nil, err
	}
	zapLog.Info("PostgreSQL connected successfully", zap.String("schema", cfg.Schema))
	return pg, nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, zapLog *zap.Logger) (*database.RedisClient, error) {
	var rc *database.RedisClient
	err := retryWithBackoff(func() error {
		var err error
		rc, err = database.NewRedis(cfg)
		if err != nil {
			return err
		}
		return rc.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		return nil, err
	}
	zapLog.Info("Redis connected successfully")
	return rc, nil
}

func connectElasticsearch(ctx context.Context, cfg config.ElasticsearchConfig, zapLog *zap.Logger) (*database.ElasticsearchClient, error) {
	var es *database.ElasticsearchClient
	err := retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg)
		if err != nil {
			return err
		}
		if err := es.Ping(ctx); err != nil {
			return err
		}
		return es.EnsureIndex(ctx, news.IndexMapping)
	}, 5, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		return nil, err
	}
	zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Index))
	return es, nil
}

// app holds the wired service and whatever needs closing on shutdown.
type app struct {
	svc     *service.Service
	closers []func() error
}

func (a *app) Close(zapLog *zap.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			zapLog.Warn("Error closing dependency", zap.Error(err))
		}
	}
}

// buildApp wires the store, agents, cache and news collaborators from cfg. Optional
// collaborators that fail to connect are logged and left out; required ones fail the build.
func buildApp(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, log logger.Logger, obs *observability.Observability, migrate bool) (*app, error) {
	a := &app{}

	// --- Store ---
	var store repository.Store
	if cfg.Database.Postgres.Enabled() && !cfg.App.MockMode {
		pg, err := connectPostgres(ctx, cfg.Database.Postgres, zapLog)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pg.Close)

		if migrate {
			if err := repository.Migrate(ctx, pg.DB, cfg.Database.Postgres.Schema); err != nil {
				a.Close(zapLog)
				return nil, fmt.Errorf("schema migration failed: %w", err)
			}
		}
		store = repository.NewPostgresStore(pg.DB, log)
	} else {
		mem, err := repository.NewSeededMemoryStore()
		if err != nil {
			return nil, err
		}
		zapLog.Info("Using in-memory store seeded with demo brands",
			zap.Bool("mockMode", cfg.App.MockMode))
		store = mem
	}

	// --- Agents ---
	provider, err := agents.NewProvider(cfg.LLM)
	if err != nil {
		a.Close(zapLog)
		return nil, err
	}
	invoker := agents.NewInvoker(provider, agents.InvokerOptionsFromConfig(cfg), log, obs)
	if invoker.Offline() {
		zapLog.Info("Agents running offline, serving mock responses",
			zap.Bool("mockMode", cfg.App.MockMode),
			zap.Bool("providerAvailable", provider.Available()))
	}

	// --- Demo cache ---
	var redisClient *database.RedisClient
	if cfg.App.DemoMode && cfg.Cache.Backend == "redis" {
		redisClient, err = connectRedis(ctx, cfg.Database.Redis, zapLog)
		if err != nil {
			a.Close(zapLog)
			return nil, err
		}
		a.closers = append(a.closers, redisClient.Close)
	}
	demoCache, err := cache.New(cfg.Cache, cfg.App.DemoMode, redisClientOf(redisClient))
	if err != nil {
		a.Close(zapLog)
		return nil, err
	}

	// --- News ---
	newsSvc := news.NewService(news.NewTavilyClient(cfg.News), provider, cfg.App.MockMode, log)

	var indexer *news.Indexer
	if cfg.Database.Elasticsearch.Enabled() {
		es, err := connectElasticsearch(ctx, cfg.Database.Elasticsearch, zapLog)
		if err != nil {
			zapLog.Warn("Elasticsearch unavailable, news search falls back to stored articles", zap.Error(err))
		} else {
			indexer = news.NewIndexer(es)
		}
	}

	var alerter *news.Alerter
	if cfg.Alerts.Enabled {
		alerter, err = news.NewAlerter(ctx, cfg.Alerts)
		if err != nil {
			zapLog.Warn("News alerts disabled", zap.Error(err))
		}
	}

	a.svc = service.New(service.Dependencies{
		Store:   store,
		Invoker: invoker,
		Cache:   demoCache,
		News:    newsSvc,
		Indexer: indexer,
		Alerter: alerter,
		Logger:  log,
		Config:  cfg.News,
	})
	return a, nil
}

func redisClientOf(rc *database.RedisClient) *redis.Client {
	if rc == nil {
		return nil
	}
	return rc.Client
}
