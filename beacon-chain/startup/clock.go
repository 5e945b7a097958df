// Package startup provides the genesis-anchored clock that every
// slot-driven service shares.
package startup

import (
	"time"

	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
	"github.com/ralexstokes/nimbus-eth2/time/slots"
)

// Nower is a function that can return the current time. The default is
// time.Now, replaced in tests to drive the clock deterministically.
type Nower func() time.Time

// Clock abstracts important time-related operations in the beacon chain:
//   - retrieving the genesis time and genesis validators root;
//   - converting the current wall time to a slot, or a genesis offset.
//
// Monotonicity of the underlying wall clock is not assumed; callers that
// care about regressions detect them explicitly.
type Clock struct {
	t   time.Time
	vr  [32]byte
	now Nower
}

// ClockOpt is a functional option to change the behavior of a clock value.
type ClockOpt func(*Clock)

// WithNower allows tests to control the value returned by Now.
func WithNower(n Nower) ClockOpt {
	return func(c *Clock) {
		c.now = n
	}
}

// NewClock constructs a Clock value anchored at the given genesis time,
// with the genesis validators root of the chain it tracks.
func NewClock(genesisTime time.Time, genesisValidatorsRoot [32]byte, opts ...ClockOpt) *Clock {
	c := &Clock{
		t:  genesisTime,
		vr: genesisValidatorsRoot,
	}
	for _, o := range opts {
		o(c)
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// GenesisTime returns the genesis timestamp.
func (c *Clock) GenesisTime() time.Time {
	return c.t
}

// GenesisValidatorsRoot returns the genesis state validator root.
func (c *Clock) GenesisValidatorsRoot() [32]byte {
	return c.vr
}

// Now returns the current offset from genesis. Never fails; pre-genesis
// times are negative offsets.
func (c *Clock) Now() slots.BeaconTime {
	return slots.SinceGenesis(c.t, c.now())
}

// CurrentSlot returns the wall-clock slot, and whether genesis has been
// reached.
func (c *Clock) CurrentSlot() (bool, primitives.Slot) {
	return c.Now().ToSlot()
}

// SlotOrZero returns the current slot, or the genesis slot if the chain
// has not started yet.
func (c *Clock) SlotOrZero() primitives.Slot {
	_, slot := c.Now().ToSlot()
	return slot
}

// FromNow returns the offset between now and the start of the given slot.
// The result is negative if the slot has already begun.
func (c *Clock) FromNow(slot primitives.Slot) slots.BeaconTime {
	start := slots.StartTime(uint64(c.t.Unix()), slot)
	return slots.BeaconTime(start.Sub(c.now()))
}

// UntilSlot returns a non-negative duration to wait until the start of
// the given slot.
func (c *Clock) UntilSlot(slot primitives.Slot) time.Duration {
	return c.FromNow(slot).SaturatingWait()
}
