package p2p

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/p2p/enode"
	"github.com/ethereum/go-ethereum/p2p/enr"
	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/config/params"
	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
	"github.com/ralexstokes/nimbus-eth2/crypto/hash"
	"github.com/ralexstokes/nimbus-eth2/encoding/bytesutil"
)

// ENRForkID is the discovery payload advertising which fork the node is on.
// The next fork fields are pinned to far-future until a fork is scheduled.
type ENRForkID struct {
	CurrentForkDigest [4]byte
	NextForkVersion   [4]byte
	NextForkEpoch     primitives.Epoch
}

// MarshalSSZ serializes the fork ID to its fixed 16-byte SSZ encoding.
func (f *ENRForkID) MarshalSSZ() ([]byte, error) {
	return f.MarshalSSZTo(make([]byte, 0, f.SizeSSZ()))
}

// MarshalSSZTo appends the SSZ encoding to the given buffer.
func (f *ENRForkID) MarshalSSZTo(dst []byte) ([]byte, error) {
	dst = append(dst, f.CurrentForkDigest[:]...)
	dst = append(dst, f.NextForkVersion[:]...)
	dst = binary.LittleEndian.AppendUint64(dst, uint64(f.NextForkEpoch))
	return dst, nil
}

// SizeSSZ returns the fixed serialized size of the fork ID.
func (_ *ENRForkID) SizeSSZ() int {
	return 16
}

// UnmarshalSSZ deserializes the fixed 16-byte SSZ encoding.
func (f *ENRForkID) UnmarshalSSZ(buf []byte) error {
	if len(buf) != 16 {
		return errors.Errorf("invalid ENRForkID size, want 16 bytes, got %d", len(buf))
	}
	copy(f.CurrentForkDigest[:], buf[0:4])
	copy(f.NextForkVersion[:], buf[4:8])
	f.NextForkEpoch = primitives.Epoch(binary.LittleEndian.Uint64(buf[8:16]))
	return nil
}

// ComputeForkDigest returns the fork digest qualifying every gossip topic:
// the first 4 bytes of hash_tree_root(ForkData{current_version,
// genesis_validators_root}).
//
// Spec pseudocode definition:
//
//	def compute_fork_digest(current_version: Version, genesis_validators_root: Root) -> ForkDigest:
//	  return ForkDigest(compute_fork_data_root(current_version, genesis_validators_root)[:4])
func ComputeForkDigest(version []byte, genesisValidatorsRoot []byte) ([4]byte, error) {
	if len(version) != 4 {
		return [4]byte{}, errors.New("fork version is not 4 bytes")
	}
	if len(genesisValidatorsRoot) != 32 {
		return [4]byte{}, errors.New("genesis validators root is not 32 bytes")
	}
	// ForkData is a two-leaf container, so its hash tree root is a single
	// merkle hash of the padded version and the root.
	var chunks [64]byte
	copy(chunks[0:4], version)
	copy(chunks[32:], genesisValidatorsRoot)
	root := hash.Hash(chunks[:])
	return bytesutil.ToBytes4(root[:4]), nil
}

// forkEntry generates the eth2 ENR entry advertising the node's fork.
func forkEntry(genesisValidatorsRoot []byte) (enr.Entry, error) {
	digest, err := ComputeForkDigest(params.BeaconConfig().GenesisForkVersion, genesisValidatorsRoot)
	if err != nil {
		return nil, err
	}
	forkID := &ENRForkID{
		CurrentForkDigest: digest,
		NextForkVersion:   bytesutil.ToBytes4(params.BeaconConfig().GenesisForkVersion),
		NextForkEpoch:     params.BeaconConfig().FarFutureEpoch,
	}
	enc, err := forkID.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	return enr.WithEntry(params.BeaconNetworkConfig().ETH2Key, enc), nil
}

// addForkEntry refreshes the eth2 entry of the given local node record.
func addForkEntry(node *enode.LocalNode, genesisValidatorsRoot []byte) (*enode.LocalNode, error) {
	entry, err := forkEntry(genesisValidatorsRoot)
	if err != nil {
		return nil, errors.Wrap(err, "could not compute fork entry")
	}
	node.Set(entry)
	return node, nil
}
