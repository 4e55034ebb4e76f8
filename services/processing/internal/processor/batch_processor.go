package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"recnorm/common/batch"
	"recnorm/common/cache"
	"recnorm/common/telemetry"
	"recnorm/services/processing/internal/config"
	"recnorm/services/processing/internal/errors"
	"recnorm/services/processing/internal/messaging"
	"recnorm/services/processing/internal/models"
	"recnorm/services/processing/internal/normalizer"
	"recnorm/services/processing/internal/sink"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Reader interface {
	Read(ctx context.Context, path string) (*models.Table, error)
}

type Writer interface {
	Write(t *models.Table, dir, name string) (string, error)
}

// RunSummary is what a finished run leaves behind in the cache.
type RunSummary struct {
	RunID       uuid.UUID          `json:"run_id"`
	RequestID   uuid.UUID          `json:"request_id"`
	Dataset     string             `json:"dataset"`
	InputPath   string             `json:"input_path"`
	OutputPath  string             `json:"output_path"`
	Loaded      map[string]int     `json:"loaded,omitempty"`
	Report      *normalizer.Report `json:"report"`
	CompletedAt time.Time          `json:"completed_at"`
}

func (s RunSummary) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

func (s *RunSummary) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, s)
}

type BatchProcessor struct {
	logger     *zap.Logger
	tracer     trace.Tracer
	config     *config.Config
	reader     Reader
	writer     Writer
	normalizer *normalizer.Normalizer
	sinks      []sink.Sink
	cache      cache.Cache
	publisher  messaging.Publisher
}

// NewBatchProcessor wires a processor. cache and publisher may be nil.
func NewBatchProcessor(
	logger *zap.Logger,
	config *config.Config,
	reader Reader,
	writer Writer,
	norm *normalizer.Normalizer,
	sinks []sink.Sink,
	c cache.Cache,
	publisher messaging.Publisher,
) *BatchProcessor {
	return &BatchProcessor{
		logger:     logger,
		tracer:     telemetry.GetTracer("recnorm/processing/processor"),
		config:     config,
		reader:     reader,
		writer:     writer,
		normalizer: norm,
		sinks:      sinks,
		cache:      c,
		publisher:  publisher,
	}
}

// ProcessMessage decodes a batches.requested payload and processes it.
func (p *BatchProcessor) ProcessMessage(ctx context.Context, data []byte) error {
	var req batch.Request
	if err := req.UnmarshalBinary(data); err != nil {
		return errors.InvalidInput("decode batch request", err)
	}
	_, err := p.Process(ctx, req)
	return err
}

// Process runs one batch end to end: read, normalize, write, then the
// optional sink loads, report caching and completion event.
func (p *BatchProcessor) Process(ctx context.Context, req batch.Request) (*RunSummary, error) {
	if p.config.ProcessingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.ProcessingTimeout)
		defer cancel()
	}
	ctx, span := p.tracer.Start(ctx, "BatchProcessor.Process")
	defer span.End()

	if req.InputPath == "" {
		return nil, errors.InvalidInput("batch request has no input path", nil)
	}
	domain := models.Domain(req.Domain)
	if domain == "" {
		domain = models.Domain(p.config.Domain)
	}
	if !domain.Valid() {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown domain %q", req.Domain), nil)
	}
	dataset := req.Dataset
	if dataset == "" {
		dataset = DatasetName(req.InputPath)
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	runID := req.RunID()

	span.SetAttributes(
		telemetry.String("run.id", runID.String()),
		telemetry.String("dataset", dataset),
		telemetry.String("domain", string(domain)),
		telemetry.Int64("timeout_ms", p.config.ProcessingTimeout.Milliseconds()),
	)
	logger := p.logger.With(
		zap.String("run_id", runID.String()),
		zap.String("dataset", dataset),
		zap.String("domain", string(domain)))

	in, err := p.reader.Read(ctx, req.InputPath)
	if err != nil {
		span.RecordError(err)
		logger.Error("extract failed", zap.String("input_path", req.InputPath), zap.Error(err))
		return nil, err
	}

	out, rep, err := p.normalizer.Normalize(domain, in)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(
		telemetry.Int("rows.in", rep.InputRows),
		telemetry.Int("rows.out", rep.OutputRows),
		telemetry.Int("duplicates_removed", rep.DuplicatesRemoved),
	)

	outputPath, err := p.writer.Write(out, p.config.OutputDir, p.config.OutputName(dataset))
	if err != nil {
		span.RecordError(err)
		logger.Error("load failed", zap.Error(err))
		return nil, err
	}

	summary := &RunSummary{
		RunID:      runID,
		RequestID:  req.ID,
		Dataset:    dataset,
		InputPath:  req.InputPath,
		OutputPath: outputPath,
		Report:     rep,
	}

	loaded, err := p.loadSinks(ctx, sink.Batch{RunID: runID, Dataset: dataset, Domain: domain, LoadedAt: time.Now().UTC()}, out)
	summary.Loaded = loaded
	span.SetAttributes(telemetry.Bool("sinks.loaded", err == nil))
	if err != nil {
		span.RecordError(err)
		logger.Error("sink load failed", zap.Error(err))
		return summary, err
	}
	summary.CompletedAt = time.Now().UTC()

	p.cacheSummary(ctx, logger, summary)
	p.announce(ctx, logger, summary, domain)

	logger.Info("batch processed",
		zap.String("output_path", outputPath),
		zap.Int("input_rows", rep.InputRows),
		zap.Int("output_rows", rep.OutputRows),
		zap.Int("stages_skipped", len(rep.Skipped)))
	return summary, nil
}

func (p *BatchProcessor) loadSinks(ctx context.Context, b sink.Batch, t *models.Table) (map[string]int, error) {
	if len(p.sinks) == 0 {
		return nil, nil
	}
	ctx, span := p.tracer.Start(ctx, "BatchProcessor.loadSinks")
	defer span.End()

	loaded := make(map[string]int, len(p.sinks))
	for _, s := range p.sinks {
		n, err := s.Load(ctx, b, t)
		if err != nil {
			return loaded, fmt.Errorf("sink %s: %w", s.Name(), err)
		}
		loaded[s.Name()] = n
		span.SetAttributes(telemetry.Int("sink."+s.Name()+".rows", n))
	}
	return loaded, nil
}

func (p *BatchProcessor) cacheSummary(ctx context.Context, logger *zap.Logger, s *RunSummary) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Set(ctx, cache.ReportKey(s.Dataset), s, p.config.CacheTTL); err != nil {
		logger.Warn("failed to cache run report", zap.Error(err))
	}
}

func (p *BatchProcessor) announce(ctx context.Context, logger *zap.Logger, s *RunSummary, domain models.Domain) {
	if p.publisher == nil {
		return
	}
	event := batch.Normalized{
		RunID:             s.RunID,
		RequestID:         s.RequestID,
		Dataset:           s.Dataset,
		Domain:            string(domain),
		OutputPath:        s.OutputPath,
		InputRows:         s.Report.InputRows,
		OutputRows:        s.Report.OutputRows,
		DuplicatesRemoved: s.Report.DuplicatesRemoved,
		Loaded:            s.Loaded,
		CompletedAt:       s.CompletedAt,
	}
	if err := p.publisher.PublishNormalized(ctx, event); err != nil {
		logger.Warn("failed to announce normalized batch", zap.Error(err))
	}
}

// LastRun returns the cached summary of the latest run of dataset.
func (p *BatchProcessor) LastRun(ctx context.Context, dataset string) (*RunSummary, error) {
	if p.cache == nil {
		return nil, errors.Unavailable("no report cache configured", nil)
	}
	var s RunSummary
	if err := p.cache.Get(ctx, cache.ReportKey(dataset), &s); err != nil {
		if err == cache.ErrNotFound {
			return nil, errors.NotFound("no run report for "+dataset, err)
		}
		return nil, errors.Unavailable("read run report", err)
	}
	return &s, nil
}

// DatasetName derives a dataset name from a file or directory path.
func DatasetName(path string) string {
	base := filepath.Base(filepath.Clean(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
