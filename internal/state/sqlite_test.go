package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/duckframe/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, s.Open(":memory:"))
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_RecordAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first := &Entry{SessionID: "s1", Kind: KindSQL, Statement: "SELECT 1", RowCount: 1, Duration: 15 * time.Millisecond, CreatedAt: base}
	second := &Entry{SessionID: "s1", Kind: KindLoad, Statement: "people.csv", Status: StatusError, Error: "boom", CreatedAt: base.Add(time.Second)}
	require.NoError(t, s.Record(ctx, first))
	require.NoError(t, s.Record(ctx, second))

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, StatusOK, first.Status)

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, KindLoad, entries[0].Kind)
	assert.Equal(t, StatusError, entries[0].Status)
	assert.Equal(t, "boom", entries[0].Error)

	assert.Equal(t, "SELECT 1", entries[1].Statement)
	assert.Equal(t, int64(1), entries[1].RowCount)
	assert.Equal(t, 15*time.Millisecond, entries[1].Duration)
	assert.Empty(t, entries[1].Error)
	assert.True(t, base.Equal(entries[1].CreatedAt))
}

func TestSQLiteStore_ListLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := range 5 {
		require.NoError(t, s.Record(ctx, &Entry{
			SessionID: "s", Kind: KindSQL, Statement: "SELECT 1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := s.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, base.Add(4*time.Minute).Equal(entries[0].CreatedAt))
}

func TestSQLiteStore_Clear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, &Entry{SessionID: "s", Kind: KindTable, Statement: "t"}))
	require.NoError(t, s.Record(ctx, &Entry{SessionID: "s", Kind: KindRead, Statement: "f.parquet"}))

	n, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSQLiteStore_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	ctx := context.Background()

	s := NewSQLiteStore(nil)
	require.NoError(t, s.Open(path))
	require.NoError(t, s.Migrate())
	require.NoError(t, s.Record(ctx, &Entry{SessionID: "s", Kind: KindSQL, Statement: "SELECT 42"}))
	require.NoError(t, s.Close())

	reopened := NewSQLiteStore(nil)
	require.NoError(t, reopened.Open(path))
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate())

	version, err := reopened.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	entries, err := reopened.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "SELECT 42", entries[0].Statement)
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	s := NewSQLiteStore(nil)
	ctx := context.Background()

	assert.Error(t, s.Migrate())
	assert.Error(t, s.Record(ctx, &Entry{}))
	_, err := s.List(ctx, 1)
	assert.Error(t, err)
	_, err = s.Clear(ctx)
	assert.Error(t, err)
	assert.NoError(t, s.Close())
}
