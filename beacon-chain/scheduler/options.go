package scheduler

import (
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/startup"
)

// Option configures the scheduler during construction.
type Option func(*Service) error

// WithClock injects the genesis-anchored clock.
func WithClock(clock *startup.Clock) Option {
	return func(s *Service) error {
		s.cfg.clock = clock
		return nil
	}
}

// WithHeadUpdater injects the fork-choice surface.
func WithHeadUpdater(h HeadUpdater) Option {
	return func(s *Service) error {
		s.cfg.head = h
		return nil
	}
}

// WithDutiesHandler injects the validator duty handler.
func WithDutiesHandler(d DutiesHandler) Option {
	return func(s *Service) error {
		s.cfg.duties = d
		return nil
	}
}

// WithGossipController injects the gossip gate and subnet rotation
// surface.
func WithGossipController(g GossipController) Option {
	return func(s *Service) error {
		s.cfg.gossip = g
		return nil
	}
}

// WithFinalizationProvider injects the finalized-epoch source for the
// finalization-delay metric.
func WithFinalizationProvider(f FinalizationProvider) Option {
	return func(s *Service) error {
		s.cfg.finalization = f
		return nil
	}
}

// WithForcedGC requests a garbage collection cycle at the end of every
// slot body.
func WithForcedGC(enabled bool) Option {
	return func(s *Service) error {
		s.cfg.forceGC = enabled
		return nil
	}
}
