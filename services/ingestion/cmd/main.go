package main

import (
	"context"
	"log"

	"recnorm/common/cache"
	"recnorm/common/cache/memory"
	rediscache "recnorm/common/cache/redis"
	"recnorm/common/telemetry"
	"recnorm/services/ingestion/internal/config"
	"recnorm/services/ingestion/internal/messaging"
	"recnorm/services/ingestion/internal/models"
	"recnorm/services/ingestion/internal/scheduler"
	"recnorm/services/ingestion/internal/source"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

func newCache(lc fx.Lifecycle, cfg *config.Config) cache.Cache {
	opts := cache.Options{
		DefaultTTL:      cfg.CacheTTL,
		CleanupInterval: cache.DefaultOptions().CleanupInterval,
		RedisURL:        cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		RedisDB:         cfg.RedisDB,
	}
	var c cache.Cache
	if cfg.RedisAddr != "" {
		c = rediscache.New(opts)
	} else {
		c = memory.New(opts)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})
	return c
}

func newPublisher(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (messaging.Publisher, error) {
	publisher, err := messaging.NewPublisher(logger, cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			publisher.Close()
			return nil
		},
	})
	return publisher, nil
}

func newSource(logger *zap.Logger, cfg *config.Config) source.DatasetSource {
	return source.NewDropFolders(logger,
		models.Folder{Dir: cfg.ProductDir, Domain: "products"},
		models.Folder{Dir: cfg.JobsDir, Domain: "jobs"},
	)
}

func startScheduler(lc fx.Lifecycle, s *scheduler.Scheduler, logger *zap.Logger, cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	var shutdownTracer func()

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			shutdown, err := telemetry.InitTracer(startCtx, "ingestion-service", cfg.CollectorURL)
			if err != nil {
				return err
			}
			shutdownTracer = shutdown

			logger.Info("starting ingestion service",
				zap.String("product_dir", cfg.ProductDir),
				zap.String("jobs_dir", cfg.JobsDir),
				zap.Duration("polling_interval", cfg.PollingInterval))

			go func() {
				if err := s.Start(ctx); err != nil && ctx.Err() == nil {
					logger.Error("scheduler failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			logger.Info("shutting down...")
			cancel()
			s.Stop()
			if shutdownTracer != nil {
				shutdownTracer()
			}
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			newLogger,
			newCache,
			newPublisher,
			newSource,
			scheduler.NewScheduler,
		),
		fx.Invoke(startScheduler),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		log.Fatal(err)
	}
}
