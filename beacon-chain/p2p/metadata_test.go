package p2p

import (
	"testing"

	bitfield "github.com/prysmaticlabs/go-bitfield"
	"github.com/ralexstokes/nimbus-eth2/testing/assert"
	"github.com/ralexstokes/nimbus-eth2/testing/require"
)

func TestMetadataV0_Copy(t *testing.T) {
	attnets := bitfield.NewBitvector64()
	attnets.SetBitAt(3, true)
	md := &MetadataV0{SeqNumber: 7, Attnets: attnets}

	cp := md.Copy()
	assert.Equal(t, uint64(7), cp.SequenceNumber())
	assert.DeepEqual(t, md.AttnetsBitfield(), cp.AttnetsBitfield())

	cp.Attnets.SetBitAt(5, true)
	assert.Equal(t, false, md.Attnets.BitAt(5), "copy mutated the original bitfield")
}

func TestUpdateSubnetRecordWithMetadata(t *testing.T) {
	s := &Service{metaData: &MetadataV0{SeqNumber: 0, Attnets: bitfield.NewBitvector64()}}
	s.localNode = newTestLocalNode(t)

	// Two subnets change in one call, yet the sequence number moves by one.
	bitV := bitfield.NewBitvector64()
	bitV.SetBitAt(3, true)
	bitV.SetBitAt(17, true)
	s.UpdateSubnetRecordWithMetadata(bitV)

	require.Equal(t, uint64(1), s.MetadataSeq())
	md := s.Metadata()
	assert.Equal(t, true, md.Attnets.BitAt(3))
	assert.Equal(t, true, md.Attnets.BitAt(17))

	bitV2 := bitfield.NewBitvector64()
	bitV2.SetBitAt(9, true)
	s.UpdateSubnetRecordWithMetadata(bitV2)
	require.Equal(t, uint64(2), s.MetadataSeq())
}
