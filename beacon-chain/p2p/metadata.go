package p2p

import (
	bitfield "github.com/prysmaticlabs/go-bitfield"
)

// MetadataV0 is the record exchanged with peers via the ENR and the
// dedicated metadata request: a monotone sequence number plus the
// advertised attestation-subnet bitfield.
type MetadataV0 struct {
	SeqNumber uint64
	Attnets   bitfield.Bitvector64
}

// SequenceNumber returns the sequence number of the metadata.
func (m *MetadataV0) SequenceNumber() uint64 {
	return m.SeqNumber
}

// AttnetsBitfield returns the attestation subnets bitfield of the metadata.
func (m *MetadataV0) AttnetsBitfield() bitfield.Bitvector64 {
	return m.Attnets
}

// Copy performs a deep copy of the metadata object.
func (m *MetadataV0) Copy() *MetadataV0 {
	attnets := make(bitfield.Bitvector64, len(m.Attnets))
	copy(attnets, m.Attnets)
	return &MetadataV0{
		SeqNumber: m.SeqNumber,
		Attnets:   attnets,
	}
}
