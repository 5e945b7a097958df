package kv

import (
	"context"
	"testing"

	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
	"github.com/ralexstokes/nimbus-eth2/testing/assert"
	"github.com/ralexstokes/nimbus-eth2/testing/require"
)

func setupDB(t testing.TB) *Store {
	db, err := NewKVStore(context.Background(), t.TempDir())
	require.NoError(t, err, "Failed to instantiate DB")
	t.Cleanup(func() {
		require.NoError(t, db.Close(), "Failed to close database")
	})
	return db
}

func TestStore_LowestSignedProposal(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	var pubKey [48]byte
	pubKey[0] = 1

	_, exists, err := db.LowestSignedProposal(ctx, pubKey)
	require.NoError(t, err)
	require.Equal(t, false, exists)

	require.NoError(t, db.SaveLowestSignedProposal(ctx, pubKey, 100))
	slot, exists, err := db.LowestSignedProposal(ctx, pubKey)
	require.NoError(t, err)
	require.Equal(t, true, exists)
	assert.Equal(t, primitives.Slot(100), slot)

	// Higher slots do not overwrite the stored minimum.
	require.NoError(t, db.SaveLowestSignedProposal(ctx, pubKey, 200))
	slot, _, err = db.LowestSignedProposal(ctx, pubKey)
	require.NoError(t, err)
	assert.Equal(t, primitives.Slot(100), slot)

	require.NoError(t, db.SaveLowestSignedProposal(ctx, pubKey, 50))
	slot, _, err = db.LowestSignedProposal(ctx, pubKey)
	require.NoError(t, err)
	assert.Equal(t, primitives.Slot(50), slot)
}

func TestStore_LowestSignedAttestation(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	var pubKey [48]byte
	pubKey[0] = 2

	require.NoError(t, db.SaveLowestSignedAttestation(ctx, pubKey, 4, 5))
	source, exists, err := db.LowestSignedSourceEpoch(ctx, pubKey)
	require.NoError(t, err)
	require.Equal(t, true, exists)
	assert.Equal(t, primitives.Epoch(4), source)

	target, exists, err := db.LowestSignedTargetEpoch(ctx, pubKey)
	require.NoError(t, err)
	require.Equal(t, true, exists)
	assert.Equal(t, primitives.Epoch(5), target)

	require.NoError(t, db.SaveLowestSignedAttestation(ctx, pubKey, 6, 7))
	source, _, err = db.LowestSignedSourceEpoch(ctx, pubKey)
	require.NoError(t, err)
	assert.Equal(t, primitives.Epoch(4), source)
}

func TestStore_GenesisValidatorsRoot(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	got, err := db.GenesisValidatorsRoot(ctx)
	require.NoError(t, err)
	assert.DeepEqual(t, []byte(nil), got)

	root := make([]byte, 32)
	root[0] = 0xde
	require.NoError(t, db.SaveGenesisValidatorsRoot(ctx, root))
	require.NoError(t, db.SaveGenesisValidatorsRoot(ctx, root))

	other := make([]byte, 32)
	other[0] = 0xad
	err = db.SaveGenesisValidatorsRoot(ctx, other)
	require.ErrorContains(t, "genesis validators root does not match", err)
}
