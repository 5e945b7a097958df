package p2p

import (
	"testing"

	"github.com/ralexstokes/nimbus-eth2/testing/assert"
	"github.com/ralexstokes/nimbus-eth2/testing/require"
)

func TestComputeForkDigest(t *testing.T) {
	zeroRoot := make([]byte, 32)
	digest, err := ComputeForkDigest([]byte{0, 0, 0, 0}, zeroRoot)
	require.NoError(t, err)
	assert.Equal(t, [4]byte{0xf5, 0xa5, 0xfd, 0x42}, digest)

	root := make([]byte, 32)
	for i := range root {
		root[i] = byte(i)
	}
	digest, err = ComputeForkDigest([]byte{1, 2, 3, 4}, root)
	require.NoError(t, err)
	assert.Equal(t, [4]byte{0x45, 0x89, 0x43, 0xc3}, digest)
}

func TestComputeForkDigest_InvalidInputs(t *testing.T) {
	_, err := ComputeForkDigest([]byte{0, 0, 0}, make([]byte, 32))
	require.ErrorContains(t, "fork version is not 4 bytes", err)
	_, err = ComputeForkDigest([]byte{0, 0, 0, 0}, make([]byte, 31))
	require.ErrorContains(t, "genesis validators root is not 32 bytes", err)
}

func TestENRForkID_SSZRoundTrip(t *testing.T) {
	forkID := &ENRForkID{
		CurrentForkDigest: [4]byte{1, 2, 3, 4},
		NextForkVersion:   [4]byte{5, 6, 7, 8},
		NextForkEpoch:     1<<64 - 1,
	}
	enc, err := forkID.MarshalSSZ()
	require.NoError(t, err)
	require.Equal(t, 16, len(enc))

	decoded := &ENRForkID{}
	require.NoError(t, decoded.UnmarshalSSZ(enc))
	assert.DeepEqual(t, forkID, decoded)

	err = decoded.UnmarshalSSZ(enc[:15])
	require.ErrorContains(t, "invalid ENRForkID size", err)
}
