// Package store persists settings records for the settings server.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wizzomafizzo/beakersync/internal/database"
	"github.com/wizzomafizzo/beakersync/internal/settings"
)

// DefaultName is the document name used by the BeakerX settings endpoint.
const DefaultName = "beakerx"

// Store keeps the latest record per name plus a history of every save.
type Store struct {
	manager *database.Manager
	db      *sql.DB
}

// Revision is one historical save.
type Revision struct {
	Record  *settings.Record
	SavedAt time.Time
	ID      int64
}

// Open opens (and migrates) the store database at dsn.
func Open(ctx context.Context, dsn string) (*Store, error) {
	manager, err := database.NewManager(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	return &Store{manager: manager, db: manager.DB()}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.manager.Close() //nolint:wrapcheck // already wrapped by manager
}

// Get returns the stored record for name. found is false when nothing was saved yet.
func (s *Store) Get(ctx context.Context, name string) (record *settings.Record, found bool, err error) {
	var value []byte
	err = s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE name = ?", name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read settings %q: %w", name, err)
	}

	record = &settings.Record{}
	if err := json.Unmarshal(value, record); err != nil {
		return nil, false, fmt.Errorf("failed to decode settings %q: %w", name, err)
	}
	return record, true, nil
}

// Put replaces the record for name and appends it to the history.
func (s *Store) Put(ctx context.Context, name string, record *settings.Record) error {
	if record == nil {
		return errors.New("cannot store nil settings record")
	}

	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode settings %q: %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO settings (name, value, updated_at) VALUES (?, ?, unixepoch())",
		name, value); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to store settings %q: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO settings_history (name, value) VALUES (?, ?)",
		name, value); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to record settings history %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings %q: %w", name, err)
	}
	return nil
}

// History returns up to limit revisions for name, newest first.
func (s *Store) History(ctx context.Context, name string, limit int) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, value, saved_at FROM settings_history WHERE name = ? ORDER BY id DESC LIMIT ?",
		name, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings history %q: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	var revisions []Revision
	for rows.Next() {
		var (
			id      int64
			value   []byte
			savedAt int64
		)
		if err := rows.Scan(&id, &value, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settings history: %w", err)
		}

		record := &settings.Record{}
		if err := json.Unmarshal(value, record); err != nil {
			return nil, fmt.Errorf("failed to decode settings history %d: %w", id, err)
		}
		revisions = append(revisions, Revision{ID: id, Record: record, SavedAt: time.Unix(savedAt, 0)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings history: %w", err)
	}

	return revisions, nil
}
