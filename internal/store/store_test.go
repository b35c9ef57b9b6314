package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wizzomafizzo/beakersync/internal/settings"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), t.TempDir()+"/settings.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGet_Missing(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	record, found, err := s.Get(context.Background(), DefaultName)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, record)
}

func TestPutThenGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	record := settings.DefaultConfig()
	record.JVMOptions.HeapGB = settings.Heap(6)
	record.JVMOptions.Other = []string{"-XX:+UseG1GC"}
	record.JVMOptions.Properties = []settings.Property{{Name: "user.timezone", Value: "UTC"}}
	record.UIOptions.AutoClose = true

	require.NoError(t, s.Put(ctx, DefaultName, record))

	got, found, err := s.Get(ctx, DefaultName)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, record, got)
}

func TestPut_ReplacesAndKeepsHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	first := settings.DefaultConfig()
	second := settings.DefaultConfig()
	second.JVMOptions.HeapGB = settings.Heap(2)

	require.NoError(t, s.Put(ctx, DefaultName, first))
	require.NoError(t, s.Put(ctx, DefaultName, second))

	got, _, err := s.Get(ctx, DefaultName)
	require.NoError(t, err)
	require.NotNil(t, got.JVMOptions.HeapGB)
	assert.InDelta(t, 2.0, *got.JVMOptions.HeapGB, 0)

	history, err := s.History(ctx, DefaultName, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second, history[0].Record)
	assert.Equal(t, first, history[1].Record)
	assert.Greater(t, history[0].ID, history[1].ID)
}

func TestHistory_Limit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	for i := 1; i <= 3; i++ {
		record := settings.DefaultConfig()
		record.JVMOptions.HeapGB = settings.Heap(float64(i))
		require.NoError(t, s.Put(ctx, DefaultName, record))
	}

	history, err := s.History(ctx, DefaultName, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.InDelta(t, 3.0, *history[0].Record.JVMOptions.HeapGB, 0)
}

func TestPut_Nil(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	err := s.Put(context.Background(), DefaultName, nil)
	require.Error(t, err)
}

func TestNamesAreIndependent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Put(ctx, "alice", settings.DefaultConfig()))

	_, found, err := s.Get(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, found)
}
