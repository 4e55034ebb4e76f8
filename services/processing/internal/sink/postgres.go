package sink

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"recnorm/common/database/postgres"
	"recnorm/services/processing/internal/errors"
	"recnorm/services/processing/internal/models"
)

// Copier is satisfied by *postgres.Pool.
type Copier interface {
	Exec(ctx context.Context, sql string) error
	CopyRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
}

type Postgres struct {
	db      Copier
	schema  string
	logger  *zap.Logger
	mu      sync.Mutex
	ensured map[models.Domain]bool
}

func NewPostgres(db Copier, schema string, logger *zap.Logger) *Postgres {
	if schema == "" {
		schema = "public"
	}
	return &Postgres{db: db, schema: schema, logger: logger, ensured: map[models.Domain]bool{}}
}

func (s *Postgres) Name() string { return "postgres" }

func (s *Postgres) Load(ctx context.Context, b Batch, t *models.Table) (int, error) {
	cols, err := layout(b.Domain)
	if err != nil {
		return 0, err
	}
	table := s.schema + "." + TableName(b.Domain)

	if err := s.ensure(ctx, b.Domain, table, cols); err != nil {
		return 0, err
	}
	// A re-run of the same input replaces its earlier rows.
	if err := s.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE run_id = '%s'", postgres.FQN(table), b.RunID)); err != nil {
		return 0, errors.Unavailable("postgres delete previous run from "+table, err)
	}

	n, err := s.db.CopyRows(ctx, table, columnNames(cols), rows(b, cols, t))
	if err != nil {
		return 0, errors.Unavailable("postgres copy into "+table, err)
	}
	s.logger.Info("loaded batch",
		zap.String("sink", s.Name()),
		zap.String("table", table),
		zap.String("run_id", b.RunID.String()),
		zap.Int64("rows", n))
	return int(n), nil
}

func (s *Postgres) ensure(ctx context.Context, d models.Domain, table string, cols []column) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured[d] {
		return nil
	}
	if err := s.db.Exec(ctx, createTableSQL(table, cols)); err != nil {
		return errors.Unavailable("postgres create "+table, err)
	}
	s.ensured[d] = true
	return nil
}

var pgTypes = map[kind]string{
	kindString: "text",
	kindFloat:  "double precision",
	kindInt:    "bigint",
	kindBool:   "boolean",
	kindDate:   "date",
	kindClock:  "text",
}

func createTableSQL(table string, cols []column) string {
	defs := []string{
		postgres.Ident("run_id") + " uuid NOT NULL",
		postgres.Ident("dataset") + " text NOT NULL",
		postgres.Ident("row_index") + " bigint NOT NULL",
		postgres.Ident("loaded_at") + " timestamptz NOT NULL",
	}
	for _, c := range cols {
		defs = append(defs, postgres.Ident(c.name)+" "+pgTypes[c.kind])
	}
	defs = append(defs, "PRIMARY KEY (run_id, row_index)")
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", postgres.FQN(table), strings.Join(defs, ",\n\t"))
}
