package messaging

import (
	"context"
	"encoding/json"

	"recnorm/common/batch"
	"recnorm/common/telemetry"
	"recnorm/services/processing/internal/errors"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("recnorm/processing/messaging")

type Publisher interface {
	PublishNormalized(ctx context.Context, event batch.Normalized) error
}

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
}

type natsPublisher struct {
	conn   Conn
	logger *zap.Logger
}

func NewPublisher(conn *nats.Conn, logger *zap.Logger) Publisher {
	return newPublisher(conn, logger)
}

func newPublisher(conn Conn, logger *zap.Logger) *natsPublisher {
	return &natsPublisher{conn: conn, logger: logger}
}

func (p *natsPublisher) PublishNormalized(ctx context.Context, event batch.Normalized) error {
	_, span := tracer.Start(ctx, "PublishNormalized")
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		return errors.Internal("marshaling normalized event", err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", batch.SubjectNormalized),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(batch.SubjectNormalized, data); err != nil {
		span.RecordError(err)
		p.logger.Error("failed to publish normalized event",
			zap.String("run_id", event.RunID.String()),
			zap.Error(err))
		return errors.Unavailable("publishing to NATS", err)
	}

	p.logger.Debug("published normalized event",
		zap.String("run_id", event.RunID.String()),
		zap.String("subject", batch.SubjectNormalized))
	return nil
}
