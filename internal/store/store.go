// Package store persists player progress and answer history. Tables are
// created from plain DDL; queries are built with ent's SQL builder and run
// over a pure Go SQLite driver.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/gachadeck/internal/logger"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const (
	tableKV      = "kv"
	tableAnswers = "answer_events"
)

// Store holds the SQLite connection and provides access to repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &Store{db: db, drv: entsql.OpenDB(dialect.SQLite, db)}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// ProgressRepo returns a ProgressRepo storing the blob under key.
func (s *Store) ProgressRepo(key string, log *logger.Logger) ProgressRepo {
	return &kvProgressRepo{drv: s.drv, key: key, log: log}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{drv: s.drv}
}

// schema holds the DDL for every table. Statements are idempotent so Open
// can run them on each start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS ` + tableKV + ` (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ` + tableAnswers + ` (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		mode       TEXT NOT NULL,
		item_id    TEXT NOT NULL,
		correct    INTEGER NOT NULL,
		delta      INTEGER NOT NULL,
		score      INTEGER NOT NULL,
		streak     INTEGER NOT NULL,
		timestamp  INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS answer_events_mode ON ` + tableAnswers + ` (mode)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if err := s.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}
