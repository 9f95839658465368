package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS build_runs (
	id                  UUID PRIMARY KEY,
	project_salt        TEXT NOT NULL,
	started_at          TIMESTAMPTZ NOT NULL,
	finished_at         TIMESTAMPTZ NOT NULL,
	key_count           INTEGER NOT NULL,
	collision_count     INTEGER NOT NULL,
	id_map_hash         TEXT NOT NULL,
	manifest_release_id TEXT NOT NULL
)`

// postgresStore persists BuildRun rows in a connection-pooled Postgres
// database, mirroring pkg/postgres/client.go's New/health-check idiom.
type postgresStore struct {
	pool *pgxpool.Pool
}

func newPostgresStore(ctx context.Context, cfg Config) (*postgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	dialCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(dialCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("store: connecting to postgres: %w", err)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: pinging postgres: %w", err)
	}
	if _, err := pool.Exec(dialCtx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: creating build_runs table: %w", err)
	}
	return &postgresStore{pool: pool}, nil
}

func (s *postgresStore) RecordBuildRun(ctx context.Context, run BuildRun) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO build_runs (id, project_salt, started_at, finished_at, key_count, collision_count, id_map_hash, manifest_release_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, run.ProjectSalt, run.StartedAt, run.FinishedAt, run.KeyCount, run.CollisionCount, run.IDMapHash, run.ManifestReleaseID,
	)
	if err != nil {
		return fmt.Errorf("store: recording build run: %w", err)
	}
	return nil
}

func (s *postgresStore) GetBuildRun(ctx context.Context, id uuid.UUID) (*BuildRun, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, project_salt, started_at, finished_at, key_count, collision_count, id_map_hash, manifest_release_id
		FROM build_runs WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("store: querying build run: %w", err)
	}
	run, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[BuildRun])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: scanning build run: %w", err)
	}
	return run, nil
}

func (s *postgresStore) ListBuildRuns(ctx context.Context, projectSalt string, limit int) ([]BuildRun, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, project_salt, started_at, finished_at, key_count, collision_count, id_map_hash, manifest_release_id
		FROM build_runs WHERE project_salt = $1 ORDER BY started_at DESC LIMIT $2`, projectSalt, limit)
	if err != nil {
		return nil, fmt.Errorf("store: listing build runs: %w", err)
	}
	runs, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[BuildRun])
	if err != nil {
		return nil, fmt.Errorf("store: scanning build runs: %w", err)
	}
	return runs, nil
}

func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}
