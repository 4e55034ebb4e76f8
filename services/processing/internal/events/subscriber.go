package events

import (
	"context"
	"fmt"

	"recnorm/common/batch"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// MessageProcessor is satisfied by *processor.BatchProcessor.
type MessageProcessor interface {
	ProcessMessage(ctx context.Context, data []byte) error
}

type Handler struct {
	logger    *zap.Logger
	nc        *nats.Conn
	tracer    trace.Tracer
	processor MessageProcessor
	sub       *nats.Subscription
}

func NewHandler(logger *zap.Logger, nc *nats.Conn, tracer trace.Tracer, processor MessageProcessor) *Handler {
	return &Handler{
		logger:    logger,
		nc:        nc,
		tracer:    tracer,
		processor: processor,
	}
}

func (h *Handler) RegisterSubscriptions(lc fx.Lifecycle) error {
	sub, err := h.nc.QueueSubscribe(batch.SubjectRequested, batch.ProcessingQueue, h.handleBatchRequest)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", batch.SubjectRequested, err)
	}

	h.sub = sub
	h.logger.Info("Registered NATS subscriptions",
		zap.String("subject", batch.SubjectRequested),
		zap.String("queue", batch.ProcessingQueue),
	)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return h.sub.Drain()
		},
	})

	return nil
}

func (h *Handler) handleBatchRequest(msg *nats.Msg) {
	ctx, span := h.tracer.Start(context.Background(), "handleBatchRequest")
	defer span.End()

	if err := h.processor.ProcessMessage(ctx, msg.Data); err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to process batch request",
			zap.Error(err),
			zap.String("subject", msg.Subject),
		)
		return
	}

	h.logger.Info("Successfully processed batch request",
		zap.String("subject", msg.Subject),
	)
}
