// Package scheduler drives the per-slot work of the beacon node: head
// updates, validator duties, the gossip gate, and subnet rotation, all
// strictly serialized on one timer.
package scheduler

import (
	"context"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/startup"
	"github.com/ralexstokes/nimbus-eth2/config/params"
	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
	"github.com/ralexstokes/nimbus-eth2/time/slots"
)

// HeadUpdater recomputes fork choice for the given wall slot and may move
// the canonical head.
type HeadUpdater interface {
	UpdateHead(ctx context.Context, slot primitives.Slot) error
}

// DutiesHandler performs the attached validators' work for the slot span
// (lastSlot, wallSlot]. It may block for intra-slot aggregation windows
// and is never cancelled mid-slot.
type DutiesHandler interface {
	HandleSlot(ctx context.Context, lastSlot, wallSlot primitives.Slot) error
}

// GossipController is the gossip-side surface the scheduler drives once
// per slot.
type GossipController interface {
	EvaluateGate(currentSlot primitives.Slot)
	GateEnabled() bool
	CycleSubnets(slot primitives.Slot)
}

// FinalizationProvider reports the latest finalized epoch for the
// finalization-delay metric.
type FinalizationProvider interface {
	FinalizedEpoch() primitives.Epoch
}

// Service owns the single pending slot timer. Every tick runs to
// completion before the next is armed, so gate transitions and subnet
// cycles never interleave.
type Service struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config

	lastSlot primitives.Slot
	timer    *time.Timer
}

type config struct {
	clock        *startup.Clock
	head         HeadUpdater
	duties       DutiesHandler
	gossip       GossipController
	finalization FinalizationProvider
	forceGC      bool
}

// NewService initializes the slot scheduler.
func NewService(ctx context.Context, opts ...Option) (*Service, error) {
	ctx, cancel := context.WithCancel(ctx)
	s := &Service{
		ctx:    ctx,
		cancel: cancel,
		cfg:    &config{},
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			cancel()
			return nil, err
		}
	}
	if s.cfg.clock == nil {
		cancel()
		return nil, errors.New("slot scheduler requires a clock")
	}
	return s, nil
}

// Start arms the first tick for the slot after the current one and runs
// the tick loop.
func (s *Service) Start() {
	s.lastSlot = s.cfg.clock.SlotOrZero()
	first := s.lastSlot.Add(1)
	s.timer = time.NewTimer(s.cfg.clock.UntilSlot(first))
	go s.run(first)
}

// Stop halts the tick loop. An in-flight slot body finishes on its own.
func (s *Service) Stop() error {
	s.cancel()
	return nil
}

// Status is always healthy once constructed.
func (_ *Service) Status() error {
	return nil
}

func (s *Service) run(scheduled primitives.Slot) {
	defer s.timer.Stop()
	for {
		select {
		case <-s.timer.C:
			next := s.onSlotStart(scheduled)
			s.timer.Reset(s.cfg.clock.UntilSlot(next))
			scheduled = next
		case <-s.ctx.Done():
			return
		}
	}
}

// onSlotStart runs the per-slot body and returns the slot to arm next.
// Steps run in a fixed order; duty handling returns before the gate is
// consulted, so a slow slot shows up as fall-behind on the next tick
// rather than as overlapping work.
func (s *Service) onSlotStart(scheduled primitives.Slot) primitives.Slot {
	afterGenesis, wallSlot := s.cfg.clock.CurrentSlot()

	// NTP step-backs re-arm without touching lastSlot, so duties are never
	// driven for a slot the node already handled.
	if !afterGenesis || wallSlot < s.lastSlot {
		log.WithFields(logFields(s.lastSlot, wallSlot)).Warn("Wall clock moved backwards; re-arming slot timer")
		return s.lastSlot.Add(1)
	}

	// Far behind wall clock: replaying stale slots is the sync manager's
	// job, and driving duties for them would be harmful.
	if wallSlot > s.lastSlot.Add(uint64(params.BeaconConfig().SlotsPerEpoch)) {
		log.WithFields(logFields(s.lastSlot, wallSlot)).Warn("Node fell behind wall clock; skipping per-slot work")
		s.lastSlot = wallSlot
		return wallSlot.Add(1)
	}

	currentSlotGauge.Set(float64(wallSlot))
	if s.cfg.finalization != nil {
		epoch := slots.ToEpoch(scheduled)
		finalized := s.cfg.finalization.FinalizedEpoch()
		delay := primitives.Epoch(0)
		if epoch > finalized {
			delay = epoch - finalized
		}
		finalizationDelayGauge.Set(float64(delay))
	}

	if s.cfg.head != nil {
		if err := s.cfg.head.UpdateHead(s.ctx, wallSlot); err != nil {
			log.WithError(err).Error("Could not update head")
		}
	}
	if s.cfg.duties != nil {
		if err := s.cfg.duties.HandleSlot(s.ctx, s.lastSlot, wallSlot); err != nil {
			log.WithError(err).Error("Could not handle validator duties")
		}
	}
	if s.cfg.gossip != nil {
		s.cfg.gossip.EvaluateGate(wallSlot)
		if slots.IsEpochStart(wallSlot) && s.cfg.gossip.GateEnabled() {
			s.cfg.gossip.CycleSubnets(wallSlot)
		}
	}

	if s.cfg.forceGC {
		runtime.GC()
	}

	s.lastSlot = wallSlot
	return wallSlot.Add(1)
}
