package p2p

import (
	"github.com/ethereum/go-ethereum/p2p/enode"
	"github.com/ethereum/go-ethereum/p2p/enr"
	bitfield "github.com/prysmaticlabs/go-bitfield"
	"github.com/ralexstokes/nimbus-eth2/config/params"
)

// initializeAttSubnets sets an empty attestation subnet entry on the local
// node record alongside zeroed metadata.
func (s *Service) initializeAttSubnets(node *enode.LocalNode) *enode.LocalNode {
	bitV := bitfield.NewBitvector64()
	entry := enr.WithEntry(params.BeaconNetworkConfig().AttSubnetKey, bitV.Bytes())
	node.Set(entry)
	s.metaDataLock.Lock()
	defer s.metaDataLock.Unlock()
	s.metaData = &MetadataV0{
		SeqNumber: 0,
		Attnets:   bitV,
	}
	return node
}

// UpdateSubnetRecordWithMetadata refreshes the attnets entry of the node
// record and replaces the metadata with the next sequence number. A single
// call covers any number of subnet changes, so the sequence number moves by
// exactly one per advertised change set.
func (s *Service) UpdateSubnetRecordWithMetadata(bitV bitfield.Bitvector64) {
	entry := enr.WithEntry(params.BeaconNetworkConfig().AttSubnetKey, bitV.Bytes())
	s.localNode.Set(entry)
	s.metaDataLock.Lock()
	defer s.metaDataLock.Unlock()
	s.metaData = &MetadataV0{
		SeqNumber: s.metaData.SeqNumber + 1,
		Attnets:   bitV,
	}
}
