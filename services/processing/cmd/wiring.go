package main

import (
	"context"
	"fmt"

	"recnorm/common/cache"
	"recnorm/common/cache/memory"
	rediscache "recnorm/common/cache/redis"
	"recnorm/common/database"
	"recnorm/common/database/postgres"
	"recnorm/common/telemetry"
	"recnorm/services/processing/internal/config"
	"recnorm/services/processing/internal/dataset"
	"recnorm/services/processing/internal/normalizer"
	"recnorm/services/processing/internal/parser"
	"recnorm/services/processing/internal/processor"
	"recnorm/services/processing/internal/sink"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.LogLevel == "debug" {
		return zap.NewDevelopment()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func newNATSConnection(cfg *config.Config) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Timeout(cfg.NATSConnTimeout),
		nats.Name("processing-service"),
		nats.RetryOnFailedConnect(true),
	}
	return nats.Connect(cfg.NATSURL, opts...)
}

func newTracer() trace.Tracer {
	return telemetry.GetTracer("recnorm/processing")
}

func newStrategies(cfg *config.Config) (parser.Strategies, error) {
	return parser.NewStrategies(cfg.SalaryStrategy, cfg.DefaultTZ)
}

func newReader(cfg *config.Config, logger *zap.Logger) processor.Reader {
	return dataset.NewReader(logger, cfg.ReadWorkers)
}

func newWriter(logger *zap.Logger) processor.Writer {
	return dataset.NewWriter(logger)
}

// newCache returns Redis when REDIS_ADDR is set. Without it serve falls back
// to an in-process cache and one-shot runs go without one.
func newCache(cfg *config.Config, fallback bool) cache.Cache {
	opts := cache.Options{
		DefaultTTL:      cfg.CacheTTL,
		CleanupInterval: cache.DefaultOptions().CleanupInterval,
		RedisURL:        cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		RedisDB:         cfg.RedisDB,
	}
	switch {
	case cfg.RedisAddr != "":
		return rediscache.New(opts)
	case fallback:
		return memory.New(opts)
	default:
		return nil
	}
}

// newSinks opens a connection per configured sink. The returned func closes
// them all.
func newSinks(ctx context.Context, cfg *config.Config, logger *zap.Logger) ([]sink.Sink, func(), error) {
	var (
		sinks   []sink.Sink
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.HasSink(config.SinkClickHouse) {
		db, err := database.New(ctx, database.Options{
			DSN:             cfg.ClickHouseDSN,
			MaxOpenConns:    cfg.ClickHouseMaxOpenConns,
			MaxIdleConns:    cfg.ClickHouseMaxIdleConns,
			ConnMaxLifetime: cfg.ClickHouseConnMaxLife,
			Username:        cfg.ClickHouseUsername,
			Password:        cfg.ClickHousePassword,
			Database:        cfg.ClickHouseDatabase,
		}, logger)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("clickhouse sink: %w", err)
		}
		closers = append(closers, func() { _ = db.Close() })
		sinks = append(sinks, sink.NewClickHouse(db, logger))
	}

	if cfg.HasSink(config.SinkPostgres) {
		pool, err := postgres.New(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("postgres sink: %w", err)
		}
		closers = append(closers, pool.Close)
		sinks = append(sinks, sink.NewPostgres(pool, cfg.PostgresSchema, logger))
	}

	return sinks, closeAll, nil
}

func newNormalizer(logger *zap.Logger, strategies parser.Strategies) *normalizer.Normalizer {
	return normalizer.New(logger, strategies)
}
