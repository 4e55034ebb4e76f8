package scheduler

import (
	"context"
	"sync"
	"time"

	"recnorm/common/cache"
	"recnorm/common/telemetry"
	"recnorm/services/ingestion/internal/config"
	"recnorm/services/ingestion/internal/errors"
	"recnorm/services/ingestion/internal/messaging"
	"recnorm/services/ingestion/internal/models"
	"recnorm/services/ingestion/internal/source"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("recnorm/ingestion/scheduler")

// Scheduler polls the drop folders and requests processing for every
// dataset whose fingerprint it has not published yet.
type Scheduler struct {
	source           source.DatasetSource
	publisher        messaging.Publisher
	cache            cache.Cache
	logger           *zap.Logger
	config           *config.Config
	mutex            sync.Mutex
	isActive         bool
	workerManager    *workerManager
	datasetProcessor *datasetProcessor
}

func NewScheduler(src source.DatasetSource, publisher messaging.Publisher, c cache.Cache, logger *zap.Logger, config *config.Config) *Scheduler {
	scheduler := &Scheduler{
		source:    src,
		publisher: publisher,
		cache:     c,
		logger:    logger,
		config:    config,
	}
	scheduler.workerManager = newWorkerManager(scheduler, logger)
	scheduler.datasetProcessor = newDatasetProcessor(scheduler, logger)
	return scheduler
}

func (s *Scheduler) Start(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Scheduler.Start")
	defer span.End()

	s.mutex.Lock()
	if s.isActive {
		s.mutex.Unlock()
		return nil
	}
	s.isActive = true
	s.mutex.Unlock()

	ticker := time.NewTicker(s.config.PollingInterval)
	defer ticker.Stop()

	if _, err := s.Scan(ctx); err != nil {
		s.logger.Error("initial scan failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Scan(ctx); err != nil {
				s.logger.Error("periodic scan failed", zap.Error(err))
			}
		}
	}
}

func (s *Scheduler) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.isActive = false
}

// ScanStats counts what one scan did.
type ScanStats struct {
	DatasetsFound int32
	Published     int32
	Unchanged     int32
	Failed        int32
}

// Scan lists the drop folders once and fingerprints every dataset on the
// worker pool.
func (s *Scheduler) Scan(ctx context.Context) (ScanStats, error) {
	ctx, span := tracer.Start(ctx, "Scheduler.Scan")
	defer span.End()

	datasets, err := s.source.ListDatasets(ctx)
	if err != nil {
		span.RecordError(err)
		return ScanStats{}, errors.Internal("failed to list datasets", err)
	}
	span.SetAttributes(telemetry.Int("datasets.count", len(datasets)))

	stats := &ScanStats{DatasetsFound: int32(len(datasets))}
	datasetChan := make(chan models.Dataset)

	wg := s.workerManager.startWorkers(ctx, stats, datasetChan)
	s.datasetProcessor.feedDatasets(ctx, datasets, datasetChan)
	wg.Wait()

	span.SetAttributes(
		telemetry.Int("datasets.published", int(stats.Published)),
		telemetry.Int("datasets.unchanged", int(stats.Unchanged)),
		telemetry.Int("datasets.failed", int(stats.Failed)),
	)
	s.logger.Info("scan complete",
		zap.Int32("datasets_found", stats.DatasetsFound),
		zap.Int32("published", stats.Published),
		zap.Int32("unchanged", stats.Unchanged),
		zap.Int32("failed", stats.Failed))

	if err := ctx.Err(); err != nil {
		return *stats, err
	}
	return *stats, nil
}
