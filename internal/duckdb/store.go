// Package duckdb provides an analysis store for sweep results.
// Replicate summaries and their cut sites are appended to DuckDB tables
// and aggregated with SQL.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding sweep results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sweep_replicates (
		run_id VARCHAR,
		snapshot_id VARCHAR,
		seq BIGINT,
		replicate BIGINT,
		seed UBIGINT,
		wrap_length BIGINT,
		mean_linker_length BIGINT,
		linker_variance DOUBLE,
		total_nucleosomes BIGINT,
		missing_fraction DOUBLE,
		cuts_per_kbp DOUBLE,
		nucleosomes BIGINT,
		detached BIGINT,
		cuts BIGINT,
		span BIGINT,
		mean_cut_spacing DOUBLE,
		mean_fragment DOUBLE,
		PRIMARY KEY (run_id, seq)
	)`); err != nil {
		return err
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sweep_cuts (
		run_id VARCHAR,
		snapshot_id VARCHAR,
		position BIGINT
	)`)
	return err
}
