// Package catalog persists ingested series in a local SQLite database
// so converted axes can be listed, re-exported, and re-converted without
// re-reading the source files.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/quartzlab/tephra/internal/series"
)

// ErrNotFound is returned when a series ID has no catalog entry.
var ErrNotFound = errors.New("series not found in catalog")

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS series (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL DEFAULT '',
    time_unit  TEXT NOT NULL DEFAULT '',
    time_name  TEXT NOT NULL DEFAULT '',
    value_name TEXT NOT NULL DEFAULT '',
    value_unit TEXT NOT NULL DEFAULT '',
    points     INTEGER NOT NULL DEFAULT 0,
    has_values INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS samples (
    series_id TEXT NOT NULL REFERENCES series(id) ON DELETE CASCADE,
    idx       INTEGER NOT NULL,
    t         REAL NOT NULL,
    v         REAL,
    PRIMARY KEY (series_id, idx)
);
`

// Store is a SQLite-backed series catalog.
type Store struct {
	db *sql.DB
}

// Summary is one row of the catalog listing.
type Summary struct {
	ID        string
	Name      string
	TimeUnit  string
	Points    int
	UpdatedAt time.Time
}

// Open opens (or creates) the catalog database at dbPath, enables WAL
// mode and busy timeout, and creates the schema if needed.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("catalog: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: open database: %w", err)
	}

	// One connection: SQLite has a single writer, and pooled connections
	// would each need their own PRAGMA setup.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("catalog: %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts a series and all its samples in one transaction. A series
// without an ID gets a fresh UUID; the stored ID is returned either way.
func (s *Store) Save(ctx context.Context, sr series.Series) (string, error) {
	if len(sr.Values) > 0 && len(sr.Values) != len(sr.Time) {
		return "", fmt.Errorf("catalog: series %s: %d values for %d time points", sr.ID, len(sr.Values), len(sr.Time))
	}
	id := sr.ID
	if id == "" {
		id = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	const upsert = `
		INSERT INTO series (id, name, time_unit, time_name, value_name, value_unit, points, has_values, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name       = excluded.name,
			time_unit  = excluded.time_unit,
			time_name  = excluded.time_name,
			value_name = excluded.value_name,
			value_unit = excluded.value_unit,
			points     = excluded.points,
			has_values = excluded.has_values,
			updated_at = CURRENT_TIMESTAMP`
	if _, err := tx.ExecContext(ctx, upsert,
		id, sr.Name, sr.TimeUnit, sr.TimeName, sr.ValueName, sr.ValueUnit, len(sr.Time), len(sr.Values) > 0); err != nil {
		return "", fmt.Errorf("catalog: upsert series %s: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM samples WHERE series_id = ?", id); err != nil {
		return "", fmt.Errorf("catalog: clear samples for %s: %w", id, err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO samples (series_id, idx, t, v) VALUES (?, ?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("catalog: prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for i, tv := range sr.Time {
		// NaN values are stored as NULL; REAL columns cannot hold NaN.
		var v any
		if i < len(sr.Values) && !math.IsNaN(sr.Values[i]) {
			v = sr.Values[i]
		}
		if _, err := stmt.ExecContext(ctx, id, i, tv, v); err != nil {
			return "", fmt.Errorf("catalog: insert sample %d of %s: %w", i, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("catalog: commit series %s: %w", id, err)
	}
	return id, nil
}

// SaveCollection saves every member of a collection, returning the
// stored IDs in member order.
func (s *Store) SaveCollection(ctx context.Context, c series.Collection) ([]string, error) {
	ids := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		id, err := s.Save(ctx, m)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Get rehydrates a series by ID. Returns ErrNotFound for unknown IDs.
func (s *Store) Get(ctx context.Context, id string) (series.Series, error) {
	var sr series.Series
	var points int
	var hasValues bool
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, time_unit, time_name, value_name, value_unit, points, has_values FROM series WHERE id = ?", id).
		Scan(&sr.ID, &sr.Name, &sr.TimeUnit, &sr.TimeName, &sr.ValueName, &sr.ValueUnit, &points, &hasValues)
	if errors.Is(err, sql.ErrNoRows) {
		return series.Series{}, fmt.Errorf("catalog: %w: %s", ErrNotFound, id)
	}
	if err != nil {
		return series.Series{}, fmt.Errorf("catalog: get series %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT t, v FROM samples WHERE series_id = ? ORDER BY idx", id)
	if err != nil {
		return series.Series{}, fmt.Errorf("catalog: get samples for %s: %w", id, err)
	}
	defer rows.Close()

	sr.Time = make([]float64, 0, points)
	sr.Values = make([]float64, 0, points)
	for rows.Next() {
		var t float64
		var v sql.NullFloat64
		if err := rows.Scan(&t, &v); err != nil {
			return series.Series{}, fmt.Errorf("catalog: scan sample for %s: %w", id, err)
		}
		sr.Time = append(sr.Time, t)
		if v.Valid {
			sr.Values = append(sr.Values, v.Float64)
		} else {
			sr.Values = append(sr.Values, math.NaN())
		}
	}
	if err := rows.Err(); err != nil {
		return series.Series{}, fmt.Errorf("catalog: read samples for %s: %w", id, err)
	}
	if !hasValues {
		sr.Values = nil
	}
	if len(sr.Time) == 0 {
		sr.Time, sr.Values = nil, nil
	}
	return sr, nil
}

// List returns a summary row per stored series, most recently updated
// first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, time_unit, points, updated_at FROM series ORDER BY updated_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("catalog: list series: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.ID, &sm.Name, &sm.TimeUnit, &sm.Points, &sm.UpdatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan summary: %w", err)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// Delete removes a series and its samples. Deleting an unknown ID
// returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM series WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("catalog: delete series %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("catalog: delete series %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("catalog: %w: %s", ErrNotFound, id)
	}
	return nil
}
