// Package store persists BuildRun history across extraction and
// manifest-publish cycles, behind one Store interface with two
// interchangeable drivers: Postgres for shared/production use and an
// embedded SQLite file for single-machine use.
//
// Grounded on pkg/postgres/client.go's connection-pool and health-check
// idiom, pkg/postgres/scanner.go's row-scanning helpers, and
// pkg/postgres/config.go's LoadConfig/Validate shape.
package store

import (
	"context"

	"github.com/google/uuid"
)

// Store records and retrieves BuildRun history.
type Store interface {
	RecordBuildRun(ctx context.Context, run BuildRun) error
	GetBuildRun(ctx context.Context, id uuid.UUID) (*BuildRun, error)
	ListBuildRuns(ctx context.Context, projectSalt string, limit int) ([]BuildRun, error)
	Close() error
}

// Open constructs a Store for cfg.Driver, dialing or opening the
// backing database and running its schema migration.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case DriverPostgres:
		return newPostgresStore(ctx, cfg)
	case DriverSQLite:
		return newSQLiteStore(ctx, cfg)
	default:
		return nil, ErrUnknownDriver
	}
}
