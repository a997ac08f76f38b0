// Package manager implements server-level database lifecycle operations.
// It runs against the management database (typically "postgres") because
// CREATE DATABASE cannot target the database it creates.
package manager

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const queryDatabaseExists = "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)"

// Manager implements database existence checks and creation.
// Stateless and safe for concurrent use; thread safety depends on the pool.
type Manager struct{}

// New creates a new Manager instance.
func New() *Manager {
	return &Manager{}
}

// Exists checks if a database exists.
func (m *Manager) Exists(ctx context.Context, pool *pgxpool.Pool, dbName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, queryDatabaseExists, dbName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check database existence: %w", err)
	}
	return exists, nil
}

// Create creates a new database.
func (m *Manager) Create(ctx context.Context, pool *pgxpool.Pool, dbName string) error {
	query := fmt.Sprintf("CREATE DATABASE %s", pgx.Identifier{dbName}.Sanitize())
	_, err := pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create database %q: %w", dbName, err)
	}
	return nil
}

// EnsureExists creates the database only when it is missing.
// Idempotent: calling it against an existing database is a no-op.
// Returns true when the database was created by this call.
func (m *Manager) EnsureExists(ctx context.Context, pool *pgxpool.Pool, dbName string) (bool, error) {
	exists, err := m.Exists(ctx, pool, dbName)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := m.Create(ctx, pool, dbName); err != nil {
		return false, err
	}
	return true, nil
}
