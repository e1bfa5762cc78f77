// Package store provides a SQLite-backed repository for the training
// provider's reference data and the index of generated documents. It
// replaces the mutable in-memory lists the legacy administration screens
// relied on: every operation goes through explicit CRUD methods returning
// errors, and nothing mutates shared state.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Sentinel errors for repository operations.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// schema is applied on open. Kept additive: new columns arrive with
// defaults so an existing database file keeps working.
const schema = `
CREATE TABLE IF NOT EXISTS companies (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	address     TEXT NOT NULL DEFAULT '',
	contact     TEXT NOT NULL DEFAULT '',
	created_ms  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trainees (
	id          TEXT PRIMARY KEY,
	last_name   TEXT NOT NULL,
	first_name  TEXT NOT NULL,
	company_id  TEXT REFERENCES companies(id) ON DELETE SET NULL,
	email       TEXT NOT NULL DEFAULT '',
	created_ms  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
	id              TEXT PRIMARY KEY,
	session_id      TEXT NOT NULL,
	category        TEXT NOT NULL,
	file_name       TEXT NOT NULL,
	generated_ms    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_session ON documents(session_id, category);
`

// Store persists provider reference data and document records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// mapConstraint converts SQLite unique-constraint violations to
// ErrDuplicate so callers never depend on driver error types.
func mapConstraint(err error) error {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
	}
	return err
}

// newID returns a fresh record identifier.
func newID() string {
	return uuid.NewString()
}

func (s *Store) ready() error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}
