package sync

import (
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/p2p"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/quarantine"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/startup"
)

// Option configures the sync service during construction.
type Option func(*Service) error

// WithP2P injects the p2p surface used for topic management and wire
// decoding.
func WithP2P(accessor p2p.Accessor) Option {
	return func(s *Service) error {
		s.cfg.p2p = accessor
		return nil
	}
}

// WithClock injects the genesis-anchored clock.
func WithClock(clock *startup.Clock) Option {
	return func(s *Service) error {
		s.cfg.clock = clock
		return nil
	}
}

// WithQuarantine injects the orphan block quarantine.
func WithQuarantine(q *quarantine.Quarantine) Option {
	return func(s *Service) error {
		s.cfg.quarantine = q
		return nil
	}
}

// WithSyncChecker injects the initial-sync progress reporter.
func WithSyncChecker(checker SyncChecker) Option {
	return func(s *Service) error {
		s.cfg.syncChecker = checker
		return nil
	}
}

// WithRequestManager injects the by-root block fetcher.
func WithRequestManager(rm RequestManager) Option {
	return func(s *Service) error {
		s.cfg.requestManager = rm
		return nil
	}
}

// WithSubnetsProvider injects the validator duty source for subnet
// assignment.
func WithSubnetsProvider(p AttesterSubnetsProvider) Option {
	return func(s *Service) error {
		s.cfg.subnetsProvider = p
		return nil
	}
}

// WithProcessor injects the consumer of validated gossip payloads.
func WithProcessor(p MessageProcessor) Option {
	return func(s *Service) error {
		s.cfg.processor = p
		return nil
	}
}
