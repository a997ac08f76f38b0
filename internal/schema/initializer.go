package schema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/emload/internal/db"
	"github.com/vvka-141/emload/internal/db/manager"
	"github.com/vvka-141/emload/pkg/emload"
)

// Initializer ensures the target database and tables exist.
//
// Two phases, both idempotent:
//  1. Connect to the management database and CREATE DATABASE if missing.
//  2. Connect to the target database and run CREATE TABLE IF NOT EXISTS
//     for every table in the Definition.
//
// Connection failures and rejected credentials are fatal; there is no retry.
type Initializer struct {
	connector  *db.Connector
	dbManager  *manager.Manager
	definition Definition
	logger     emload.Logger
}

// NewInitializer creates an Initializer with all dependencies injected.
//
// Panics if any dependency is nil. This is intentional fail-fast behavior
// to prevent cryptic nil pointer dereferences later.
func NewInitializer(connector *db.Connector, dbManager *manager.Manager, definition Definition, logger emload.Logger) *Initializer {
	if connector == nil {
		panic("connector cannot be nil")
	}
	if dbManager == nil {
		panic("dbManager cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &Initializer{
		connector:  connector,
		dbManager:  dbManager,
		definition: definition,
		logger:     logger,
	}
}

// EnsureDatabase creates the target database when it does not exist,
// connecting through the management database.
func (i *Initializer) EnsureDatabase(ctx context.Context, targetDB, managementDB string) error {
	i.logger.Verbose("Connecting to management database %q", managementDB)

	pool, err := i.connector.ConnectToDatabase(ctx, managementDB)
	if err != nil {
		return err
	}
	defer pool.Close()

	created, err := i.dbManager.EnsureExists(ctx, pool, targetDB)
	if err != nil {
		return fmt.Errorf("failed to ensure database %q: %w", targetDB, err)
	}

	if created {
		i.logger.Info("Created database %q", targetDB)
	} else {
		i.logger.Verbose("Database %q already exists", targetDB)
	}
	return nil
}

// EnsureTables runs the CREATE TABLE IF NOT EXISTS statements against the
// target database through the given pool.
func (i *Initializer) EnsureTables(ctx context.Context, pool *pgxpool.Pool) error {
	for _, table := range i.definition.Tables {
		i.logger.Verbose("Ensuring table %q", table.Name)
		if _, err := pool.Exec(ctx, table.DDL); err != nil {
			return fmt.Errorf("failed to create table %q: %w", table.Name, err)
		}
	}
	i.logger.Verbose("Schema ready: %d tables", len(i.definition.Tables))
	return nil
}
