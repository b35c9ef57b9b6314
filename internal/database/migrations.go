package database

import (
	"context"
	"fmt"
)

type migration struct {
	sql     string
	version int
}

var migrations = []migration{
	{
		version: 1,
		sql: `
			CREATE TABLE settings (
				name TEXT PRIMARY KEY,
				value BLOB NOT NULL,
				updated_at INTEGER NOT NULL DEFAULT (unixepoch())
			);
		`,
	},
	{
		version: 2,
		sql: `
			CREATE TABLE settings_history (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				value BLOB NOT NULL,
				saved_at INTEGER NOT NULL DEFAULT (unixepoch())
			);

			CREATE INDEX idx_settings_history_name ON settings_history(name, id);
		`,
	},
}

func (m *Manager) runMigrations(ctx context.Context) error {
	var currentVersion int
	err := m.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current database version: %w", err)
	}

	for _, migration := range migrations {
		if migration.version <= currentVersion {
			continue
		}
		if err := m.executeMigration(ctx, migration); err != nil {
			return err
		}
	}

	return nil
}

func (m *Manager) executeMigration(ctx context.Context, migration migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, migration.sql); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to execute migration %d: %w", migration.version, err)
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", migration.version)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to update database version to %d: %w", migration.version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.version, err)
	}
	return nil
}
