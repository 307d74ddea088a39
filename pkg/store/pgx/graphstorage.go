// Package pgx persists the news graph in PostgreSQL. Subgraph expansion
// uses a recursive CTE over both edge directions.
package pgx

import (
	"context"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/newsgraph/internal/util"
	"github.com/OFFIS-RIT/newsgraph/pkg/common"
	"github.com/OFFIS-RIT/newsgraph/pkg/logger"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
	Ping(ctx context.Context) error
}

// GraphDBStorage implements store.GraphStorage on PostgreSQL.
type GraphDBStorage struct {
	conn   pgxIConn
	pool   *pgxpool.Pool
	policy common.EndpointPolicy
}

type GraphDBStorageOption func(*GraphDBStorage)

// WithEndpointPolicy sets how relationships with unknown endpoints are stored.
func WithEndpointPolicy(policy common.EndpointPolicy) GraphDBStorageOption {
	return func(s *GraphDBStorage) {
		if policy != "" {
			s.policy = policy
		}
	}
}

// NewGraphDBStorageWithConnection creates a GraphDBStorage using an existing
// database connection or pool. The caller keeps ownership of conn.
func NewGraphDBStorageWithConnection(
	conn pgxIConn,
	opts ...GraphDBStorageOption,
) *GraphDBStorage {
	s := &GraphDBStorage{
		conn:   conn,
		policy: common.AutoCreateEndpoints,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// NewGraphDBStorage runs the migrations, opens a pool for databaseURL and
// waits for the database to answer. Close releases the pool.
func NewGraphDBStorage(
	ctx context.Context,
	databaseURL string,
	connectRetries int,
	opts ...GraphDBStorageOption,
) (*GraphDBStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	err = util.RetryErrWithBackoff(ctx, connectRetries, time.Second, func(ctx context.Context) error {
		err := pool.Ping(ctx)
		if err != nil {
			logger.Warn("[Postgres] Database not reachable yet", "err", err)
		}
		return err
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(databaseURL); err != nil {
		pool.Close()
		return nil, err
	}

	s := NewGraphDBStorageWithConnection(pool, opts...)
	s.pool = pool
	return s, nil
}

func (s *GraphDBStorage) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

func (s *GraphDBStorage) Close(ctx context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
