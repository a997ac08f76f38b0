package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/emload/pkg/emload"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns limits concurrent connections. The loader is
	// single-threaded, so the pool stays small.
	DefaultMaxConns = 2

	// DefaultMinConns maintains at least one connection in the pool.
	DefaultMinConns = 1

	// DefaultMaxConnIdleTime keeps connections alive for the duration of
	// a long load to avoid reconnection overhead.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

// SQLSTATE class 28 is "Invalid Authorization Specification".
const (
	sqlstateInvalidAuthorization = "28000"
	sqlstateInvalidPassword      = "28P01"
)

func configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
}

// Connector establishes pgx connection pools from a ConnectionConfig.
// Exactly one connection attempt is made: an unreachable server or rejected
// credentials abort the run immediately, with no retry.
type Connector struct {
	config *emload.ConnectionConfig
}

// NewConnector creates a Connector for the given configuration.
func NewConnector(config *emload.ConnectionConfig) *Connector {
	return &Connector{config: config}
}

// Connect establishes a connection pool and verifies it with a ping.
// The returned errors match emload.ErrPermissionDenied when the server
// rejected the credentials and emload.ErrConnectionFailed otherwise.
func (c *Connector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return c.connectTo(ctx, c.config.Database)
}

// ConnectToDatabase connects to a database other than the configured one,
// reusing every other parameter. Used for the management database during
// schema initialization.
func (c *Connector) ConnectToDatabase(ctx context.Context, database string) (*pgxpool.Pool, error) {
	return c.connectTo(ctx, database)
}

func (c *Connector) connectTo(ctx context.Context, database string) (*pgxpool.Pool, error) {
	cfg := *c.config
	cfg.Database = database
	connStr := BuildConnectionString(&cfg)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	configurePool(poolConfig)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, classifyConnectionError(err, cfg.Host, cfg.Port, database)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, classifyConnectionError(err, cfg.Host, cfg.Port, database)
	}

	return pool, nil
}

// classifyConnectionError wraps raw pgx connection errors with the matching
// sentinel and actionable guidance.
func classifyConnectionError(err error, host string, port int, database string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlstateInvalidPassword, sqlstateInvalidAuthorization:
			return fmt.Errorf(`%w: server rejected credentials for database %q

Possible causes:
  - Wrong password (check $PGPASSWORD or $EMLOAD_PASSWORD)
  - Wrong username
  - User does not have access to the database

Original error: %v`, emload.ErrPermissionDenied, database, err)
		}
	}

	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf("%w: password authentication failed for database %q: %v",
			emload.ErrPermissionDenied, database, err)

	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`%w: connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port
  - Firewall blocking the connection

Original error: %v`, emload.ErrConnectionFailed, addr, host, port, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`%w: cannot resolve host %q

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable
  - Network connection issue

Original error: %v`, emload.ErrConnectionFailed, host, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`%w: connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %v`, emload.ErrConnectionFailed, addr, err)

	default:
		return fmt.Errorf("%w: %v", emload.ErrConnectionFailed, err)
	}
}
