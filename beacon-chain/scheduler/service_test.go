package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/ralexstokes/nimbus-eth2/beacon-chain/startup"
	"github.com/ralexstokes/nimbus-eth2/config/params"
	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
	"github.com/ralexstokes/nimbus-eth2/testing/assert"
	"github.com/ralexstokes/nimbus-eth2/testing/require"
)

// recorder captures the order of per-slot collaborator calls.
type recorder struct {
	calls       []string
	gateEnabled bool
	lastSpan    [2]primitives.Slot
}

func (r *recorder) UpdateHead(_ context.Context, _ primitives.Slot) error {
	r.calls = append(r.calls, "head")
	return nil
}

func (r *recorder) HandleSlot(_ context.Context, lastSlot, wallSlot primitives.Slot) error {
	r.calls = append(r.calls, "duties")
	r.lastSpan = [2]primitives.Slot{lastSlot, wallSlot}
	return nil
}

func (r *recorder) EvaluateGate(_ primitives.Slot) {
	r.calls = append(r.calls, "gate")
}

func (r *recorder) GateEnabled() bool {
	return r.gateEnabled
}

func (r *recorder) CycleSubnets(_ primitives.Slot) {
	r.calls = append(r.calls, "cycle")
}

// testClock returns a clock whose wall time tracks the given slot pointer.
func testClock(slot *primitives.Slot, preGenesis *bool) *startup.Clock {
	genesis := time.Unix(1600000000, 0)
	secondsPerSlot := params.BeaconConfig().SecondsPerSlot
	return startup.NewClock(genesis, [32]byte{}, startup.WithNower(func() time.Time {
		if preGenesis != nil && *preGenesis {
			return genesis.Add(-time.Second)
		}
		return genesis.Add(time.Duration(uint64(*slot)*secondsPerSlot) * time.Second)
	}))
}

func newTestScheduler(t *testing.T, slot *primitives.Slot, preGenesis *bool, rec *recorder) *Service {
	t.Helper()
	s, err := NewService(context.Background(),
		WithClock(testClock(slot, preGenesis)),
		WithHeadUpdater(rec),
		WithDutiesHandler(rec),
		WithGossipController(rec),
	)
	require.NoError(t, err)
	return s
}

func TestNewService_RequiresClock(t *testing.T) {
	_, err := NewService(context.Background())
	require.ErrorContains(t, "requires a clock", err)
}

func TestOnSlotStart_OrdersWork(t *testing.T) {
	wall := primitives.Slot(32)
	rec := &recorder{gateEnabled: true}
	s := newTestScheduler(t, &wall, nil, rec)
	s.lastSlot = 31

	next := s.onSlotStart(32)

	require.Equal(t, primitives.Slot(33), next)
	require.Equal(t, primitives.Slot(32), s.lastSlot)
	require.DeepEqual(t, []string{"head", "duties", "gate", "cycle"}, rec.calls)
	assert.DeepEqual(t, [2]primitives.Slot{31, 32}, rec.lastSpan)
}

func TestOnSlotStart_NoCycleMidEpoch(t *testing.T) {
	wall := primitives.Slot(33)
	rec := &recorder{gateEnabled: true}
	s := newTestScheduler(t, &wall, nil, rec)
	s.lastSlot = 32

	s.onSlotStart(33)

	require.DeepEqual(t, []string{"head", "duties", "gate"}, rec.calls)
}

func TestOnSlotStart_NoCycleWhileGateClosed(t *testing.T) {
	wall := primitives.Slot(64)
	rec := &recorder{gateEnabled: false}
	s := newTestScheduler(t, &wall, nil, rec)
	s.lastSlot = 63

	s.onSlotStart(64)

	require.DeepEqual(t, []string{"head", "duties", "gate"}, rec.calls)
}

func TestOnSlotStart_ClockRegression(t *testing.T) {
	wall := primitives.Slot(5)
	rec := &recorder{}
	s := newTestScheduler(t, &wall, nil, rec)
	s.lastSlot = 10

	next := s.onSlotStart(11)

	require.Equal(t, primitives.Slot(11), next)
	require.Equal(t, primitives.Slot(10), s.lastSlot)
	require.Equal(t, 0, len(rec.calls))
}

func TestOnSlotStart_PreGenesis(t *testing.T) {
	wall := primitives.Slot(0)
	pre := true
	rec := &recorder{}
	s := newTestScheduler(t, &wall, &pre, rec)

	next := s.onSlotStart(1)

	require.Equal(t, primitives.Slot(1), next)
	require.Equal(t, 0, len(rec.calls))
}

func TestOnSlotStart_FallBehindSkipsSlotWork(t *testing.T) {
	wall := primitives.Slot(40)
	rec := &recorder{}
	s := newTestScheduler(t, &wall, nil, rec)
	s.lastSlot = 0

	next := s.onSlotStart(1)

	require.Equal(t, primitives.Slot(41), next)
	require.Equal(t, primitives.Slot(40), s.lastSlot)
	require.Equal(t, 0, len(rec.calls))
}

func TestOnSlotStart_ExactEpochLagStillHandled(t *testing.T) {
	// A lag of exactly SlotsPerEpoch is the boundary: still handled, not
	// skipped.
	wall := primitives.Slot(32)
	rec := &recorder{}
	s := newTestScheduler(t, &wall, nil, rec)
	s.lastSlot = 0

	s.onSlotStart(1)

	require.DeepEqual(t, []string{"head", "duties", "gate"}, rec.calls)
	assert.DeepEqual(t, [2]primitives.Slot{0, 32}, rec.lastSpan)
}

func TestStartStop(t *testing.T) {
	wall := primitives.Slot(3)
	rec := &recorder{}
	s := newTestScheduler(t, &wall, nil, rec)

	s.Start()
	require.NoError(t, s.Status())
	require.NoError(t, s.Stop())
}
