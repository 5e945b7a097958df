package encoder_test

import (
	"bytes"
	"testing"

	"github.com/ralexstokes/nimbus-eth2/beacon-chain/p2p/encoder"
	"github.com/ralexstokes/nimbus-eth2/testing/assert"
	"github.com/ralexstokes/nimbus-eth2/testing/require"
)

// chunk is a minimal fixed-size SSZ container used to exercise the encoder.
type chunk struct {
	Data [32]byte
}

func (c *chunk) MarshalSSZ() ([]byte, error) {
	return c.MarshalSSZTo(make([]byte, 0, c.SizeSSZ()))
}

func (c *chunk) MarshalSSZTo(dst []byte) ([]byte, error) {
	return append(dst, c.Data[:]...), nil
}

func (_ *chunk) SizeSSZ() int {
	return 32
}

func (c *chunk) UnmarshalSSZ(buf []byte) error {
	copy(c.Data[:], buf)
	return nil
}

func TestSszNetworkEncoder_GossipRoundTrip(t *testing.T) {
	e := encoder.SszNetworkEncoder{}
	msg := &chunk{}
	for i := range msg.Data {
		msg.Data[i] = byte(i)
	}

	buf := new(bytes.Buffer)
	_, err := e.EncodeGossip(buf, msg)
	require.NoError(t, err)

	decoded := &chunk{}
	require.NoError(t, e.DecodeGossip(buf.Bytes(), decoded))
	assert.DeepEqual(t, msg, decoded)
}

func TestSszNetworkEncoder_StreamRoundTrip(t *testing.T) {
	e := encoder.SszNetworkEncoder{}
	msg := &chunk{Data: [32]byte{0xaa, 0xbb}}

	buf := new(bytes.Buffer)
	_, err := e.EncodeWithMaxLength(buf, msg)
	require.NoError(t, err)

	decoded := &chunk{}
	require.NoError(t, e.DecodeWithMaxLength(buf, decoded))
	assert.DeepEqual(t, msg, decoded)
}

func TestSszNetworkEncoder_ProtocolSuffix(t *testing.T) {
	e := encoder.SszNetworkEncoder{}
	assert.Equal(t, "/ssz_snappy", e.ProtocolSuffix())
}
