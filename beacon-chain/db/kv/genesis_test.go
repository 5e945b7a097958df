package kv

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/ralexstokes/nimbus-eth2/beacon-chain/db/iface"
	"github.com/ralexstokes/nimbus-eth2/testing/assert"
	"github.com/ralexstokes/nimbus-eth2/testing/require"
)

func genesisBlob(genesisTime uint64, validatorsRoot []byte) []byte {
	blob := make([]byte, 64)
	binary.LittleEndian.PutUint64(blob[0:8], genesisTime)
	copy(blob[8:40], validatorsRoot)
	return blob
}

func TestStore_SaveGenesisData(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	root := make([]byte, 32)
	root[0] = 0xfe
	blob := genesisBlob(1606824023, root)
	require.NoError(t, db.SaveGenesisData(ctx, 1606824023, root, blob))

	gotTime, err := db.GenesisTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1606824023), gotTime)

	gotRoot, err := db.GenesisValidatorsRoot(ctx)
	require.NoError(t, err)
	assert.DeepEqual(t, root, gotRoot)

	gotState, err := db.GenesisState(ctx)
	require.NoError(t, err)
	assert.DeepEqual(t, blob, gotState)
}

func TestStore_SaveGenesisData_RejectsDifferentGenesis(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	root := make([]byte, 32)
	root[0] = 1
	require.NoError(t, db.SaveGenesisData(ctx, 100, root, genesisBlob(100, root)))

	// Saving the same genesis again is idempotent.
	require.NoError(t, db.SaveGenesisData(ctx, 100, root, genesisBlob(100, root)))

	otherRoot := make([]byte, 32)
	otherRoot[0] = 2
	err := db.SaveGenesisData(ctx, 100, otherRoot, genesisBlob(100, otherRoot))
	require.Equal(t, true, err == iface.ErrExistingGenesisState)
}

func TestStore_GenesisState_Empty(t *testing.T) {
	db := setupDB(t)
	st, err := db.GenesisState(context.Background())
	require.NoError(t, err)
	assert.DeepEqual(t, []byte(nil), st)
}

func TestStore_LoadGenesis(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	root := make([]byte, 32)
	root[5] = 0xaa
	blob := genesisBlob(1700000000, root)
	require.NoError(t, db.LoadGenesis(ctx, bytes.NewReader(blob)))

	gotTime, err := db.GenesisTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000), gotTime)

	gotRoot, err := db.GenesisValidatorsRoot(ctx)
	require.NoError(t, err)
	assert.DeepEqual(t, root, gotRoot)
}

func TestStore_LoadGenesis_TooShort(t *testing.T) {
	db := setupDB(t)
	err := db.LoadGenesis(context.Background(), bytes.NewReader([]byte{1, 2, 3}))
	require.ErrorContains(t, "genesis state blob too short", err)
}
