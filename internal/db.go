package internal

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"esports-stats/internal/config"
	"esports-stats/internal/logging"
	"esports-stats/internal/metrics"
)

// Querier runs one parameterized query. *pgxpool.Pool satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// DB is the store handle shared by every handler.
type DB interface {
	Querier
	Ping(ctx context.Context) error
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

/* ===================== CONNECT ===================== */

// MustDB opens the pool and retries until the store answers a ping or
// cfg.ConnectTimeout elapses, in which case the process exits.
func MustDB(cfg config.DatabaseConfig) *pgxpool.Pool {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid database url")
	}
	pcfg.MaxConns = cfg.MaxConns

	var pool *pgxpool.Pool

	deadline := time.Now().Add(cfg.ConnectTimeout)
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		pool, err = pgxpool.NewWithConfig(ctx, pcfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				cancel()
				break
			}
			pool.Close()
		}
		cancel()

		if time.Now().After(deadline) {
			logging.Fatal().Err(err).Int("attempts", attempt).Msg("failed to connect DB after retries")
		}
		logging.Warn().Err(err).Int("attempt", attempt).Msg("database not ready, retrying")
		time.Sleep(1 * time.Second)
	}

	logging.Info().Int32("max_conns", pcfg.MaxConns).Msg("database pool ready")
	return pool
}

/* ===================== QUERY HELPERS ===================== */

// qCollect builds q, runs it once and decodes every row into T by column
// name. The round trip is recorded under op.
func qCollect[T any](ctx context.Context, db Querier, op string, q sq.Sqlizer) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	start := time.Now()
	out, err := collect[T](ctx, db, sql, args)
	metrics.RecordQuery(op, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func collect[T any](ctx context.Context, db Querier, sql string, args []any) ([]T, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[T])
}
