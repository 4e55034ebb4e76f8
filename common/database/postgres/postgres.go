// Package postgres wraps a pgx connection pool with the COPY-based bulk
// load the sinks use.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Pool struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func New(ctx context.Context, dsn string, logger *zap.Logger) (*Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &Pool{pool: pool, logger: logger}, nil
}

func (p *Pool) Exec(ctx context.Context, sql string) error {
	_, err := p.pool.Exec(ctx, sql)
	return err
}

// CopyRows streams rows into table with COPY FROM. table may be schema
// qualified ("analytics.products").
func (p *Pool) CopyRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := p.pool.CopyFrom(ctx, SplitFQN(table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return 0, fmt.Errorf("copy into %s: %s (%s)", table, pgErr.Detail, pgErr.SQLState())
		}
		return 0, fmt.Errorf("copy into %s: %w", table, err)
	}

	p.logger.Debug("postgres copy complete",
		zap.String("table", table),
		zap.Int64("rows", n))
	return n, nil
}

func (p *Pool) Close() {
	p.pool.Close()
}

// Ident quotes a single identifier.
func Ident(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// FQN quotes a possibly schema-qualified name like "public.products" to
// "public"."products".
func FQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = Ident(p)
	}
	return strings.Join(parts, ".")
}

// SplitFQN turns "schema.table" into a pgx.Identifier, dropping empty parts.
func SplitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			id = append(id, p)
		}
	}
	return id
}
