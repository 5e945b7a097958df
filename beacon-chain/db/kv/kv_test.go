package kv

import (
	"context"
	"testing"

	"github.com/ralexstokes/nimbus-eth2/testing/require"
)

// setupDB instantiates and returns a Store instance.
func setupDB(t testing.TB) *Store {
	db, err := NewKVStore(context.Background(), t.TempDir())
	require.NoError(t, err, "Failed to instantiate DB")
	t.Cleanup(func() {
		require.NoError(t, db.Close(), "Failed to close database")
	})
	return db
}

func TestStore_DatabasePath(t *testing.T) {
	dir := t.TempDir()
	db, err := NewKVStore(context.Background(), dir)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()
	require.Equal(t, dir, db.DatabasePath())
}

func TestStore_ClearDB(t *testing.T) {
	dir := t.TempDir()
	db, err := NewKVStore(context.Background(), dir)
	require.NoError(t, err)
	require.NoError(t, db.ClearDB())

	// Clearing an already-removed database is a no-op.
	require.NoError(t, db.ClearDB())
}
