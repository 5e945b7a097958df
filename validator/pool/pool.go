// Package pool tracks the validator public keys attached to a beacon node
// and derives the attestation subnets they must listen on.
package pool

import (
	"encoding/binary"
	"fmt"
	gosync "sync"

	"github.com/minio/sha256-simd"
	"github.com/ralexstokes/nimbus-eth2/config/params"
	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "validator-pool")

// Pool holds the set of validator public keys served by this node. The set
// is mutated when keys are imported or removed and read every epoch by the
// subnet rotation logic, so all access is guarded by a lock.
type Pool struct {
	lock    gosync.RWMutex
	pubkeys map[[48]byte]struct{}
}

// NewPool returns an empty validator pool.
func NewPool() *Pool {
	return &Pool{
		pubkeys: make(map[[48]byte]struct{}),
	}
}

// AddValidator attaches a validator public key to the pool.
func (p *Pool) AddValidator(pubkey [48]byte) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if _, ok := p.pubkeys[pubkey]; ok {
		return
	}
	p.pubkeys[pubkey] = struct{}{}
	log.WithFields(logrus.Fields{
		"pubkey": fmt.Sprintf("%#x", pubkey[:8]),
		"total":  len(p.pubkeys),
	}).Debug("Attached validator")
}

// RemoveValidator detaches a validator public key from the pool.
func (p *Pool) RemoveValidator(pubkey [48]byte) {
	p.lock.Lock()
	defer p.lock.Unlock()
	delete(p.pubkeys, pubkey)
}

// HasValidators reports whether any validators are attached.
func (p *Pool) HasValidators() bool {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return len(p.pubkeys) > 0
}

// Count returns the number of attached validators.
func (p *Pool) Count() int {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return len(p.pubkeys)
}

// SubnetsForEpoch returns the attestation subnets the attached validators
// are assigned to during the given epoch. Assignments are stable for a
// whole epoch and rotate with it.
func (p *Pool) SubnetsForEpoch(epoch primitives.Epoch) []uint64 {
	p.lock.RLock()
	defer p.lock.RUnlock()

	cfg := params.BeaconConfig()
	netCfg := params.BeaconNetworkConfig()
	seen := make(map[uint64]bool)
	var subnets []uint64
	for pubkey := range p.pubkeys {
		for i := uint64(0); i < cfg.RandomSubnetsPerValidator; i++ {
			subnet := assignedSubnet(pubkey, epoch, i, netCfg.AttestationSubnetCount)
			if seen[subnet] {
				continue
			}
			seen[subnet] = true
			subnets = append(subnets, subnet)
		}
	}
	return subnets
}

// assignedSubnet derives a validator's subnet for an epoch from a digest of
// the public key, the epoch and the assignment index.
func assignedSubnet(pubkey [48]byte, epoch primitives.Epoch, index, subnetCount uint64) uint64 {
	var buf [64]byte
	copy(buf[:48], pubkey[:])
	binary.LittleEndian.PutUint64(buf[48:56], uint64(epoch))
	binary.LittleEndian.PutUint64(buf[56:64], index)
	digest := sha256.Sum256(buf[:])
	return binary.LittleEndian.Uint64(digest[:8]) % subnetCount
}
