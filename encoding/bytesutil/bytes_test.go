package bytesutil_test

import (
	"testing"

	"github.com/ralexstokes/nimbus-eth2/encoding/bytesutil"
	"github.com/ralexstokes/nimbus-eth2/testing/assert"
	"github.com/ralexstokes/nimbus-eth2/testing/require"
)

func TestToBytes32(t *testing.T) {
	tests := []struct {
		input []byte
		want  [32]byte
	}{
		{input: nil, want: [32]byte{}},
		{input: []byte{1, 2, 3}, want: [32]byte{1, 2, 3}},
		{input: append(make([]byte, 32), 0xff), want: [32]byte{}},
	}
	for _, tt := range tests {
		assert.DeepEqual(t, tt.want, bytesutil.ToBytes32(tt.input))
	}
}

func TestBytes8_RoundTrip(t *testing.T) {
	for _, x := range []uint64{0, 1, 1 << 32, 1<<64 - 1} {
		assert.Equal(t, x, bytesutil.FromBytes8(bytesutil.Bytes8(x)))
	}
	// Short input is zero-extended.
	assert.Equal(t, uint64(7), bytesutil.FromBytes8([]byte{7}))
}

func TestPadTo(t *testing.T) {
	padded := bytesutil.PadTo([]byte{1, 2}, 4)
	assert.DeepEqual(t, []byte{1, 2, 0, 0}, padded)

	oversize := []byte{1, 2, 3, 4, 5}
	assert.DeepEqual(t, oversize, bytesutil.PadTo(oversize, 4))

	assert.Equal(t, 32, len(bytesutil.PadTo(nil, 32)))
}

func TestDecodeHexWithLength(t *testing.T) {
	decoded, err := bytesutil.DecodeHexWithLength("deadbeef", 4)
	require.NoError(t, err)
	assert.DeepEqual(t, []byte{0xde, 0xad, 0xbe, 0xef}, decoded)

	_, err = bytesutil.DecodeHexWithLength("deadbeef", 32)
	require.ErrorContains(t, "not length of 32", err)

	_, err = bytesutil.DecodeHexWithLength("zz", 1)
	require.ErrorContains(t, "could not decode hex string", err)
}

func TestZeroRoot(t *testing.T) {
	assert.Equal(t, true, bytesutil.ZeroRoot(make([]byte, 32)))
	assert.Equal(t, true, bytesutil.ZeroRoot(nil))
	assert.Equal(t, false, bytesutil.ZeroRoot([]byte{0, 0, 1}))
}

func TestTrunc(t *testing.T) {
	assert.Equal(t, 6, len(bytesutil.Trunc(make([]byte, 32))))
	assert.Equal(t, 3, len(bytesutil.Trunc(make([]byte, 3))))
}
