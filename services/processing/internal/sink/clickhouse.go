package sink

import (
	"context"

	"go.uber.org/zap"

	"recnorm/services/processing/internal/errors"
	"recnorm/services/processing/internal/models"
)

// BatchInserter is satisfied by *database.Database.
type BatchInserter interface {
	InsertBatch(ctx context.Context, table string, columns []string, rows [][]any) (int, error)
}

type ClickHouse struct {
	db     BatchInserter
	logger *zap.Logger
}

func NewClickHouse(db BatchInserter, logger *zap.Logger) *ClickHouse {
	return &ClickHouse{db: db, logger: logger}
}

func (s *ClickHouse) Name() string { return "clickhouse" }

func (s *ClickHouse) Load(ctx context.Context, b Batch, t *models.Table) (int, error) {
	cols, err := layout(b.Domain)
	if err != nil {
		return 0, err
	}
	table := TableName(b.Domain)

	n, err := s.db.InsertBatch(ctx, table, columnNames(cols), rows(b, cols, t))
	if err != nil {
		return 0, errors.Unavailable("clickhouse insert into "+table, err)
	}
	s.logger.Info("loaded batch",
		zap.String("sink", s.Name()),
		zap.String("table", table),
		zap.String("run_id", b.RunID.String()),
		zap.Int("rows", n))
	return n, nil
}
