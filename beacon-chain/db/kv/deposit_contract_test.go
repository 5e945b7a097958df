package kv

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ralexstokes/nimbus-eth2/testing/assert"
	"github.com/ralexstokes/nimbus-eth2/testing/require"
)

func TestStore_DepositContract(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	// Nothing saved yet.
	retrieved, err := db.DepositContractAddress(ctx)
	require.NoError(t, err)
	assert.DeepEqual(t, []uint8(nil), retrieved)

	addr := common.HexToAddress("0x00000000219ab540356cBB839Cbe05303d7705Fa")
	require.NoError(t, db.SaveDepositContractAddress(ctx, addr))
	retrieved, err = db.DepositContractAddress(ctx)
	require.NoError(t, err)
	assert.Equal(t, addr, common.BytesToAddress(retrieved))

	// The address is written once per database lifetime.
	err = db.SaveDepositContractAddress(ctx, common.Address{4, 5, 6})
	require.ErrorContains(t, "cannot override deposit contract address", err)
}
