package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

func parseStoredTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("store: malformed timestamp %q: %w", value, err)
	}
	return t, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS build_runs (
	id                  TEXT PRIMARY KEY,
	project_salt        TEXT NOT NULL,
	started_at          TEXT NOT NULL,
	finished_at         TEXT NOT NULL,
	key_count           INTEGER NOT NULL,
	collision_count     INTEGER NOT NULL,
	id_map_hash         TEXT NOT NULL,
	manifest_release_id TEXT NOT NULL
)`

// sqliteStore persists BuildRun rows in an embedded SQLite file via the
// pure-Go modernc.org/sqlite driver, so the CLI never needs cgo.
type sqliteStore struct {
	db *sql.DB
}

func newSQLiteStore(ctx context.Context, cfg Config) (*sqliteStore, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("store: opening sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite serializes writes per connection
	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: opening sqlite database: %w", err)
	}
	if _, err := db.ExecContext(pingCtx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating build_runs table: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) RecordBuildRun(ctx context.Context, run BuildRun) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO build_runs (id, project_salt, started_at, finished_at, key_count, collision_count, id_map_hash, manifest_release_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.ProjectSalt, run.StartedAt.UTC().Format(timeLayout), run.FinishedAt.UTC().Format(timeLayout),
		run.KeyCount, run.CollisionCount, run.IDMapHash, run.ManifestReleaseID,
	)
	if err != nil {
		return fmt.Errorf("store: recording build run: %w", err)
	}
	return nil
}

func (s *sqliteStore) GetBuildRun(ctx context.Context, id uuid.UUID) (*BuildRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_salt, started_at, finished_at, key_count, collision_count, id_map_hash, manifest_release_id
		FROM build_runs WHERE id = ?`, id.String())
	run, err := scanBuildRun(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: scanning build run: %w", err)
	}
	return run, nil
}

func (s *sqliteStore) ListBuildRuns(ctx context.Context, projectSalt string, limit int) ([]BuildRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_salt, started_at, finished_at, key_count, collision_count, id_map_hash, manifest_release_id
		FROM build_runs WHERE project_salt = ? ORDER BY started_at DESC LIMIT ?`, projectSalt, limit)
	if err != nil {
		return nil, fmt.Errorf("store: listing build runs: %w", err)
	}
	defer rows.Close()

	var runs []BuildRun
	for rows.Next() {
		run, err := scanBuildRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("store: scanning build run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: listing build runs: %w", err)
	}
	return runs, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// scanBuildRun reads the eight build_runs columns through the given
// scan function, shared by QueryRow.Scan and Rows.Scan call sites.
func scanBuildRun(scan func(dest ...any) error) (*BuildRun, error) {
	var (
		run                     BuildRun
		idText                  string
		startedText, finishText string
	)
	if err := scan(&idText, &run.ProjectSalt, &startedText, &finishText, &run.KeyCount, &run.CollisionCount, &run.IDMapHash, &run.ManifestReleaseID); err != nil {
		return nil, err
	}
	parsedID, err := uuid.Parse(idText)
	if err != nil {
		return nil, fmt.Errorf("store: malformed build run id %q: %w", idText, err)
	}
	run.ID = parsedID
	if run.StartedAt, err = parseStoredTime(startedText); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseStoredTime(finishText); err != nil {
		return nil, err
	}
	return &run, nil
}
