package execution

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ralexstokes/nimbus-eth2/testing/assert"
	"github.com/ralexstokes/nimbus-eth2/testing/require"
)

func TestNewService_RequiresConfig(t *testing.T) {
	_, err := NewService(context.Background())
	require.ErrorContains(t, "requires a web3 endpoint", err)

	_, err = NewService(context.Background(), WithHTTPEndpoint("http://localhost:8545"))
	require.ErrorContains(t, "requires a deposit contract address", err)

	s, err := NewService(context.Background(),
		WithHTTPEndpoint("http://localhost:8545"),
		WithDepositContract(common.HexToAddress("0x00000000219ab540356cBB839Cbe05303d7705Fa")),
	)
	require.NoError(t, err)
	require.ErrorContains(t, "not connected", s.Status())
}

func TestParseDepositCount(t *testing.T) {
	out := make([]byte, 96)
	binary.LittleEndian.PutUint64(out[64:72], 16384)
	count, err := parseDepositCount(out)
	require.NoError(t, err)
	assert.Equal(t, uint64(16384), count)

	_, err = parseDepositCount([]byte{1, 2, 3})
	require.ErrorContains(t, "too short", err)
}
