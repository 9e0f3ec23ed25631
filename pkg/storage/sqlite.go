// Package storage provides a SQLite sink for event-log snapshots, mirroring
// the JSON export into a queryable table.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite" // CGO-free SQLite

	"github.com/entrhq/pagetrace/pkg/eventlog"
)

// Store is an open SQLite event sink.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// events table exists.
func Open(path string) (*Store, error) {
	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS events(
	  id           INTEGER PRIMARY KEY,
	  seq          INTEGER NOT NULL,
	  source       TEXT    NOT NULL,
	  payload_json TEXT    NOT NULL CHECK (json_valid(payload_json))
	);
	CREATE INDEX IF NOT EXISTS idx_events_seq    ON events(seq);
	CREATE INDEX IF NOT EXISTS idx_events_source ON events(source);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create events table: %w", err)
	}

	return &Store{db: db}, nil
}

// WriteSnapshot inserts every record in order within one transaction, so a
// failed write leaves no partial snapshot behind.
func (s *Store) WriteSnapshot(records []eventlog.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO events(seq, source, payload_json) VALUES(?,?,json(?))`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for seq, record := range records {
		payload, err := json.Marshal(record.Payload)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		if _, err := stmt.Exec(seq, record.Source, string(payload)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert record %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Count returns the number of stored events.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
