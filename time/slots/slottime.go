// Package slots maps between wall-clock time and the slot/epoch schedule
// of the beacon chain.
package slots

import (
	"time"

	"github.com/ralexstokes/nimbus-eth2/config/params"
	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
)

// BeaconTime is a signed offset from the genesis time with sub-slot
// precision. Negative values are before genesis.
type BeaconTime time.Duration

// ToSlot maps the offset onto the slot schedule. The boolean reports
// whether the offset is at or after genesis; pre-genesis offsets map to
// slot zero.
func (t BeaconTime) ToSlot() (afterGenesis bool, slot primitives.Slot) {
	if t < 0 {
		return false, params.BeaconConfig().GenesisSlot
	}
	d := time.Duration(params.BeaconConfig().SecondsPerSlot) * time.Second
	return true, primitives.Slot(time.Duration(t) / d)
}

// SaturatingWait converts the offset into a non-negative wait duration.
func (t BeaconTime) SaturatingWait() time.Duration {
	if t < 0 {
		return 0
	}
	return time.Duration(t)
}

// Before reports whether t is earlier than other.
func (t BeaconTime) Before(other BeaconTime) bool {
	return t < other
}

// ToEpoch returns the epoch number of the input slot.
//
// Spec pseudocode definition:
//
//	def compute_epoch_at_slot(slot: Slot) -> Epoch:
//	  return Epoch(slot // SLOTS_PER_EPOCH)
func ToEpoch(slot primitives.Slot) primitives.Epoch {
	return primitives.Epoch(slot.Div(uint64(params.BeaconConfig().SlotsPerEpoch)))
}

// EpochStart returns the first slot number of the given epoch.
//
// Spec pseudocode definition:
//
//	def compute_start_slot_at_epoch(epoch: Epoch) -> Slot:
//	  return Slot(epoch * SLOTS_PER_EPOCH)
func EpochStart(epoch primitives.Epoch) primitives.Slot {
	return primitives.Slot(epoch).Mul(uint64(params.BeaconConfig().SlotsPerEpoch))
}

// IsEpochStart returns true if the given slot number is the first slot of
// an epoch.
func IsEpochStart(slot primitives.Slot) bool {
	return slot.Mod(uint64(params.BeaconConfig().SlotsPerEpoch)) == 0
}

// StartTime returns the wall-clock instant at which the given slot begins.
func StartTime(genesis uint64, slot primitives.Slot) time.Time {
	duration := time.Second * time.Duration(uint64(slot)*params.BeaconConfig().SecondsPerSlot)
	return time.Unix(int64(genesis), 0).Add(duration)
}

// SinceGenesis returns the offset of the given wall-clock instant from the
// genesis instant.
func SinceGenesis(genesis, now time.Time) BeaconTime {
	return BeaconTime(now.Sub(genesis))
}
