package scheduler

import (
	"context"
	"sync"
	"sync/atomic"

	"recnorm/services/ingestion/internal/models"

	"go.uber.org/zap"
)

type workerManager struct {
	scheduler *Scheduler
	logger    *zap.Logger
}

func newWorkerManager(scheduler *Scheduler, logger *zap.Logger) *workerManager {
	return &workerManager{
		scheduler: scheduler,
		logger:    logger,
	}
}

func (w *workerManager) startWorkers(ctx context.Context, stats *ScanStats, datasetChan chan models.Dataset) *sync.WaitGroup {
	var wg sync.WaitGroup

	numWorkers := w.scheduler.config.FingerprintWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ds := range datasetChan {
				published, err := w.scheduler.datasetProcessor.processDataset(ctx, ds)
				switch {
				case err != nil:
					w.logger.Error("failed to process dataset",
						zap.String("dataset", ds.Name),
						zap.String("path", ds.Path),
						zap.Error(err))
					atomic.AddInt32(&stats.Failed, 1)
				case published:
					atomic.AddInt32(&stats.Published, 1)
				default:
					atomic.AddInt32(&stats.Unchanged, 1)
				}
			}
		}()
	}

	return &wg
}
