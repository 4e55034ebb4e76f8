package main

import (
	"context"

	"recnorm/common/cache"
	"recnorm/common/telemetry"
	"recnorm/services/processing/internal/config"
	"recnorm/services/processing/internal/events"
	"recnorm/services/processing/internal/messaging"
	"recnorm/services/processing/internal/processor"
	"recnorm/services/processing/internal/sink"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideSinks(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) ([]sink.Sink, error) {
	sinks, closeAll, err := newSinks(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			closeAll()
			return nil
		},
	})
	return sinks, nil
}

func provideCache(lc fx.Lifecycle, cfg *config.Config) cache.Cache {
	c := newCache(cfg, true)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})
	return c
}

func provideNATS(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	nc, err := newNATSConnection(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return nc.Drain()
		},
	})
	return nc, nil
}

func registerTracing(lc fx.Lifecycle, cfg *config.Config) error {
	shutdown, err := telemetry.InitTracer(context.Background(), "processing-service", cfg.CollectorURL)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			shutdown()
			return nil
		},
	})
	return nil
}

func asMessageProcessor(p *processor.BatchProcessor) events.MessageProcessor {
	return p
}

func newServeApp(cfg *config.Config) *fx.App {
	return fx.New(
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			provideNATS,
			provideCache,
			provideSinks,
			newStrategies,
			newNormalizer,
			newReader,
			newWriter,
			messaging.NewPublisher,
			processor.NewBatchProcessor,
			asMessageProcessor,
			events.NewHandler,
			newTracer,
		),
		fx.Invoke(
			registerTracing,
			func(handler *events.Handler, lc fx.Lifecycle) error {
				return handler.RegisterSubscriptions(lc)
			},
		),
	)
}
