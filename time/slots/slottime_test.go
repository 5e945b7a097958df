package slots_test

import (
	"testing"
	"time"

	"github.com/ralexstokes/nimbus-eth2/config/params"
	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
	"github.com/ralexstokes/nimbus-eth2/testing/assert"
	"github.com/ralexstokes/nimbus-eth2/time/slots"
)

func TestBeaconTime_ToSlot(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	slotDuration := time.Duration(params.BeaconConfig().SecondsPerSlot) * time.Second

	afterGenesis, slot := slots.BeaconTime(-time.Second).ToSlot()
	assert.Equal(t, false, afterGenesis)
	assert.Equal(t, params.BeaconConfig().GenesisSlot, slot)

	afterGenesis, slot = slots.BeaconTime(0).ToSlot()
	assert.Equal(t, true, afterGenesis)
	assert.Equal(t, primitives.Slot(0), slot)

	// A partial slot still belongs to the slot it started in.
	_, slot = slots.BeaconTime(5*slotDuration + slotDuration/2).ToSlot()
	assert.Equal(t, primitives.Slot(5), slot)
}

func TestBeaconTime_SaturatingWait(t *testing.T) {
	assert.Equal(t, time.Duration(0), slots.BeaconTime(-time.Minute).SaturatingWait())
	assert.Equal(t, 3*time.Second, slots.BeaconTime(3*time.Second).SaturatingWait())
}

func TestBeaconTime_Before(t *testing.T) {
	assert.Equal(t, true, slots.BeaconTime(-time.Second).Before(slots.BeaconTime(0)))
	assert.Equal(t, false, slots.BeaconTime(time.Second).Before(slots.BeaconTime(time.Second)))
}

func TestEpochConversions(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	slotsPerEpoch := uint64(params.BeaconConfig().SlotsPerEpoch)

	assert.Equal(t, primitives.Epoch(0), slots.ToEpoch(primitives.Slot(slotsPerEpoch-1)))
	assert.Equal(t, primitives.Epoch(1), slots.ToEpoch(primitives.Slot(slotsPerEpoch)))

	// EpochStart inverts ToEpoch at epoch boundaries.
	for _, epoch := range []primitives.Epoch{0, 1, 7} {
		start := slots.EpochStart(epoch)
		assert.Equal(t, epoch, slots.ToEpoch(start))
		assert.Equal(t, true, slots.IsEpochStart(start))
		if start > 0 {
			assert.Equal(t, false, slots.IsEpochStart(start-1))
		}
	}
}

func TestStartTime_SinceGenesisRoundTrip(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	genesis := time.Unix(1606824023, 0)

	at := slots.StartTime(uint64(genesis.Unix()), 10)
	_, slot := slots.SinceGenesis(genesis, at).ToSlot()
	assert.Equal(t, primitives.Slot(10), slot)
}
