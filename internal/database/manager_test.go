package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	manager, err := NewManager(ctx, ":memory:")

	require.NoError(t, err)
	require.NotNil(t, manager)
	require.NotNil(t, manager.DB())

	err = manager.Close()
	assert.NoError(t, err)
}

func TestWALModeEnabled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Use file database since :memory: doesn't support WAL
	tempFile := t.TempDir() + "/test.db"
	manager, err := NewManager(ctx, tempFile)
	require.NoError(t, err)
	defer func() { _ = manager.Close() }()

	var journalMode string
	err = manager.DB().QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode)
	require.NoError(t, err)
	assert.Equal(t, "wal", journalMode)
}

func TestMigrationVersion(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	manager, err := NewManager(ctx, ":memory:")
	require.NoError(t, err)
	defer func() { _ = manager.Close() }()

	var version int
	err = manager.DB().QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, expectedVersion, version)
}

func TestReopenKeepsSchema(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := t.TempDir() + "/reopen.db"

	first, err := NewManager(ctx, path)
	require.NoError(t, err)
	_, err = first.DB().ExecContext(ctx, "INSERT INTO settings (name, value) VALUES ('default', '{}')")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewManager(ctx, path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	var count int
	err = second.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM settings").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
