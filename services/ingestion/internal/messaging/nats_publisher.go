package messaging

import (
	"context"
	"encoding/json"
	"time"

	"recnorm/common/batch"
	"recnorm/common/telemetry"
	"recnorm/services/ingestion/internal/config"
	"recnorm/services/ingestion/internal/errors"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("recnorm/ingestion/messaging")

type Publisher interface {
	PublishBatchRequest(ctx context.Context, req batch.Request) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewPublisher(logger *zap.Logger, config *config.Config) (Publisher, error) {
	opts := []nats.Option{
		nats.Name("ingestion-service"),
		nats.Timeout(config.NATSConnTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	conn, err := nats.Connect(config.NATSURL, opts...)
	if err != nil {
		return nil, errors.Unavailable("connecting to NATS", err)
	}

	return &natsPublisher{
		conn:   conn,
		logger: logger,
	}, nil
}

func (p *natsPublisher) PublishBatchRequest(ctx context.Context, req batch.Request) error {
	_, span := tracer.Start(ctx, "PublishBatchRequest")
	defer span.End()

	data, err := json.Marshal(req)
	if err != nil {
		span.RecordError(err)
		return errors.Internal("marshaling batch request", err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", batch.SubjectRequested),
		telemetry.String("dataset", req.Dataset),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(batch.SubjectRequested, data); err != nil {
		span.RecordError(err)
		p.logger.Error("failed to publish batch request",
			zap.String("id", req.ID.String()),
			zap.Error(err))
		return errors.Unavailable("publishing to NATS", err)
	}

	p.logger.Debug("published batch request",
		zap.String("id", req.ID.String()),
		zap.String("dataset", req.Dataset),
		zap.String("subject", batch.SubjectRequested))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
