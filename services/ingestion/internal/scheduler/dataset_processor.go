package scheduler

import (
	"context"

	"recnorm/common/batch"
	"recnorm/common/cache"
	"recnorm/common/telemetry"
	"recnorm/services/ingestion/internal/errors"
	"recnorm/services/ingestion/internal/models"
	"recnorm/services/ingestion/internal/source"

	"go.uber.org/zap"
)

type datasetProcessor struct {
	scheduler *Scheduler
	logger    *zap.Logger
}

func newDatasetProcessor(scheduler *Scheduler, logger *zap.Logger) *datasetProcessor {
	return &datasetProcessor{
		scheduler: scheduler,
		logger:    logger,
	}
}

// processDataset publishes a batch request unless this exact content was
// already published. It reports whether it published.
func (p *datasetProcessor) processDataset(ctx context.Context, ds models.Dataset) (bool, error) {
	ctx, span := tracer.Start(ctx, "Scheduler.processDataset")
	defer span.End()
	span.SetAttributes(
		telemetry.String("dataset", ds.Name),
		telemetry.Int("files.count", len(ds.Files)),
	)

	fingerprint, err := source.Fingerprint(ds.Files)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	seenKey := cache.SeenKey(ds.Domain + ":" + ds.Name + ":" + fingerprint)

	var marker string
	err = p.scheduler.cache.Get(ctx, seenKey, &marker)
	if err == nil {
		span.SetAttributes(telemetry.String("cache.result", "hit"))
		p.logger.Debug("dataset unchanged",
			zap.String("dataset", ds.Name),
			zap.String("fingerprint", fingerprint))
		return false, nil
	} else if err != cache.ErrNotFound {
		span.SetAttributes(telemetry.String("cache.result", "error"))
		span.RecordError(err)
		p.logger.Warn("cache error for seen marker", zap.Error(err))
	} else {
		span.SetAttributes(telemetry.String("cache.result", "miss"))
	}

	req := batch.NewRequest(ds.Name, ds.Domain, ds.Path, fingerprint)
	if err := p.scheduler.publisher.PublishBatchRequest(ctx, req); err != nil {
		span.RecordError(err)
		return false, errors.Internal("failed to publish batch request", err)
	}

	if err := p.scheduler.cache.Set(ctx, seenKey, req.ID.String(), p.scheduler.config.CacheTTL); err != nil {
		p.logger.Warn("failed to store seen marker", zap.Error(err))
	}

	p.logger.Info("requested processing",
		zap.String("dataset", ds.Name),
		zap.String("domain", ds.Domain),
		zap.String("request_id", req.ID.String()),
		zap.String("fingerprint", fingerprint))
	return true, nil
}

func (p *datasetProcessor) feedDatasets(ctx context.Context, datasets []models.Dataset, datasetChan chan models.Dataset) {
	defer close(datasetChan)
	for _, ds := range datasets {
		select {
		case <-ctx.Done():
			return
		case datasetChan <- ds:
		}
	}
}
