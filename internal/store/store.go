// Package store persists grading reports in SQLite or PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite

	"github.com/zinc-sig/pyramid/internal/output"
)

// ErrNotFound is returned by Get for unknown report IDs.
var ErrNotFound = errors.New("report not found")

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// DefaultLimit bounds List when no limit is given.
const DefaultLimit = 20

// Summary is a report listing row.
type Summary struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Score     int       `json:"score"`
	Tier      string    `json:"tier"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	db     *sql.DB
	driver Driver
}

// Open connects and ensures the schema exists. An empty dsn selects a local
// default for the driver.
func Open(ctx context.Context, driver Driver, dsn string) (*Store, error) {
	var name string
	switch driver {
	case DriverSQLite:
		name = "sqlite"
		if dsn == "" {
			dsn = "file:pyramid.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		name = "pgx"
		if dsn == "" {
			dsn = "postgres://localhost:5432/pyramid?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	schema := schemaSQLite
	if driver == DriverPostgres {
		schema = schemaPostgres
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts r or replaces the stored copy with the same ID.
func (s *Store) Save(ctx context.Context, r *output.Report) error {
	if r.ID == "" {
		return errors.New("report has no id")
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	created := r.StartedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO reports (id, status, score, tier, report_json, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
  status = excluded.status,
  score = excluded.score,
  tier = excluded.tier,
  report_json = excluded.report_json`,
		r.ID, r.Status, r.Score, r.Tier, string(data), created.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", r.ID, err)
	}
	return nil
}

// Get loads the full report.
func (s *Store) Get(ctx context.Context, id string) (*output.Report, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT report_json FROM reports WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", id, err)
	}
	return output.Decode([]byte(data))
}

// List returns the newest reports first.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, status, score, tier, created_at FROM reports
ORDER BY created_at DESC, id
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var (
			sum     Summary
			created int64
		)
		if err := rows.Scan(&sum.ID, &sum.Status, &sum.Score, &sum.Tier, &created); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		sum.CreatedAt = time.UnixMilli(created).UTC()
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return summaries, nil
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS reports (
  id TEXT PRIMARY KEY,
  status TEXT NOT NULL,
  score INTEGER NOT NULL DEFAULT 0,
  tier TEXT NOT NULL DEFAULT '',
  report_json TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS reports_created_at ON reports (created_at);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS reports (
  id TEXT PRIMARY KEY,
  status TEXT NOT NULL,
  score INTEGER NOT NULL DEFAULT 0,
  tier TEXT NOT NULL DEFAULT '',
  report_json TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS reports_created_at ON reports (created_at);
`
