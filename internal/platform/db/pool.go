package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing fallbacks for a single-practice deployment. The tenant
// middleware pins one connection per request, so the ceiling bounds
// concurrent interaction checks, not just queries.
const (
	defaultMaxConns = 10
	defaultMinConns = 2
)

// NewPool builds the pgx pool shared by all tenant schemas. Connections are
// recycled periodically because the tenant middleware sets search_path as
// session state on every acquired connection.
func NewPool(ctx context.Context, databaseURL string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns, cfg.MinConns = poolLimits(maxConns, minConns)
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// poolLimits applies the sizing fallbacks and keeps the floor below the
// ceiling when config supplies only one of the two.
func poolLimits(maxConns, minConns int32) (int32, int32) {
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	if minConns <= 0 {
		minConns = defaultMinConns
	}
	if minConns > maxConns {
		minConns = maxConns
	}
	return maxConns, minConns
}
