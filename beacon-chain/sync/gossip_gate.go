package sync

import (
	bitfield "github.com/prysmaticlabs/go-bitfield"
	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
	"golang.org/x/sync/errgroup"
)

const (
	// subscribeThresholdSlots is the sync-queue length below which gossip
	// subscriptions turn on.
	subscribeThresholdSlots = 64
	// gateHysteresis pads the disable threshold above the enable threshold
	// so the gate does not flap around the boundary.
	gateHysteresis = 16
	// minGateSlot keeps the gate from shedding subscriptions in the first
	// epoch after genesis, where the queue-length upper bound is
	// meaningless.
	minGateSlot = 32
)

// EvaluateGate turns topic subscriptions on or off based on initial-sync
// progress. Runs on the slot scheduler's call chain, never concurrently
// with subnet rotation.
func (s *Service) EvaluateGate(currentSlot primitives.Slot) {
	if s.cfg.syncChecker == nil {
		return
	}
	queueLen := s.cfg.syncChecker.SyncQueueLen()
	switch {
	case !s.gateEnabled && queueLen < subscribeThresholdSlots:
		log.WithField("syncQueueLen", queueLen).Info("Enabling topic subscriptions")
		s.addMessageHandlers()
		s.gateEnabled = true
		gossipGateEnabledGauge.Set(1)
	case s.gateEnabled && currentSlot >= minGateSlot &&
		queueLen > subscribeThresholdSlots+gateHysteresis &&
		queueLen < 2*uint64(currentSlot):
		log.WithField("syncQueueLen", queueLen).Warn("Node fell far behind; disabling topic subscriptions")
		s.removeMessageHandlers()
		s.gateEnabled = false
		gossipGateEnabledGauge.Set(0)
	}
}

// GateEnabled reports whether gossip subscriptions are currently on.
func (s *Service) GateEnabled() bool {
	return s.gateEnabled
}

// addMessageHandlers joins the global topics in parallel and brings the
// attestation subnet subscriptions up.
func (s *Service) addMessageHandlers() {
	var g errgroup.Group
	for _, topic := range s.globalTopics() {
		topic := topic
		g.Go(func() error {
			return s.subscribe(topic)
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Could not subscribe to gossip topics")
	}
	s.initialSubscribe()
}

// removeMessageHandlers drops every live subscription and withdraws the
// subnet advertisement in one metadata update. The stability subnet
// identity survives so a later enable restores the same advertisement.
func (s *Service) removeMessageHandlers() {
	for _, topic := range s.globalTopics() {
		if err := s.unsubscribe(topic); err != nil {
			log.WithError(err).WithField("topic", topic).Error("Could not unsubscribe from topic")
		}
	}
	for i := uint64(0); i < s.attestationSubnetCount(); i++ {
		if err := s.unsubscribe(s.attSubnetTopic(i)); err != nil {
			log.WithError(err).WithField("subnet", i).Error("Could not unsubscribe from attestation subnet")
		}
	}
	for parity := range s.subnets.subscribed {
		s.subnets.subscribed[parity] = make(map[uint64]bool)
	}
	s.cfg.p2p.UpdateSubnetRecordWithMetadata(bitfield.NewBitvector64())
}
