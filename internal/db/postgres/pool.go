package postgres

import (
	"context"
	"fmt"
	"github.com/jackc/pgx/v5/pgxpool"
	"time"
)

// ConnectionConfig carries everything needed to reach one of the protocol
// databases. The reconciler opens one pool per database.
type ConnectionConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	ConnectTimeout time.Duration
}

// Connect opens a pgx pool against the named database and verifies it with a
// ping so misconfigured deployments fail before any reconciliation starts.
func Connect(ctx context.Context, cfg ConnectionConfig, database string) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		database,
	)
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config for %s: %w", database, err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool for %s: %w", database, err)
	}

	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database %s: %w", database, err)
	}
	return pool, nil
}
