// Package store persists households, usage records, footprint results, tip
// dismissals, and reduction goals in a local sqlite database.
//
// Usage records are append-only: a correction is a new record, so any past
// period's footprint stays reproducible from the rows that existed when it
// was calculated. Footprint results are replaced atomically per
// (household, period) inside a transaction.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps the database connection.
type Store struct {
	conn *sql.DB
}

// Open creates the database connection and initializes the schema.
func Open(dbPath string) (*Store, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS households (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		region TEXT NOT NULL DEFAULT '',
		members INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS usage_records (
		id TEXT PRIMARY KEY,
		household_id TEXT NOT NULL REFERENCES households(id),
		category TEXT NOT NULL,
		subtype TEXT NOT NULL,
		quantity REAL NOT NULL,
		unit TEXT NOT NULL DEFAULT '',
		frequency TEXT NOT NULL DEFAULT '',
		efficiency_km_per_l REAL NOT NULL DEFAULT 0,
		local_sourced_pct INTEGER NOT NULL DEFAULT 0,
		organic_pct INTEGER NOT NULL DEFAULT 0,
		recorded_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_usage_household ON usage_records(household_id);
	CREATE INDEX IF NOT EXISTS idx_usage_recorded ON usage_records(recorded_at);

	CREATE TABLE IF NOT EXISTS footprint_results (
		id TEXT PRIMARY KEY,
		household_id TEXT NOT NULL REFERENCES households(id),
		period TEXT NOT NULL,
		energy_kg REAL NOT NULL,
		transportation_kg REAL NOT NULL,
		diet_kg REAL NOT NULL,
		total_kg REAL NOT NULL,
		per_capita_kg REAL NOT NULL,
		members INTEGER NOT NULL,
		warnings TEXT NOT NULL DEFAULT '[]',
		unresolved TEXT NOT NULL DEFAULT '[]',
		invalid TEXT NOT NULL DEFAULT '[]',
		deltas TEXT,
		reference TEXT NOT NULL DEFAULT '{}',
		factor_version TEXT NOT NULL,
		calculated_at TEXT NOT NULL,
		UNIQUE(household_id, period)
	);

	CREATE TABLE IF NOT EXISTS tip_dismissals (
		household_id TEXT NOT NULL REFERENCES households(id),
		tip_id TEXT NOT NULL,
		dismissed_at TEXT NOT NULL,
		PRIMARY KEY (household_id, tip_id)
	);

	CREATE TABLE IF NOT EXISTS reduction_goals (
		id TEXT PRIMARY KEY,
		household_id TEXT NOT NULL REFERENCES households(id),
		tip_id TEXT NOT NULL,
		target_date TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		completed_at TEXT,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_goals_household ON reduction_goals(household_id);
	`

	_, err := s.conn.Exec(schema)
	return err
}
