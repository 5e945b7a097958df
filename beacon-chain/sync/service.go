// Package sync glues the gossip surface to the block processor: it routes
// incoming messages, sheds topic subscriptions while initial sync is far
// behind, rotates attestation subnets, and schedules ancestor fetches for
// quarantined orphans.
package sync

import (
	"context"
	gosync "sync"
	"time"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/p2p"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/quarantine"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/startup"
)

// secondTickerInterval is the cadence of the ancestor-fetch loop.
const secondTickerInterval = time.Second

// Service orchestrates the gossip side of the beacon node. Gate and subnet
// mutations happen only on the slot scheduler's call chain; the second
// ticker runs independently and touches only the quarantine.
type Service struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config

	digest        [4]byte
	subnets       *subnetState
	gateEnabled   bool
	subscriptions map[string]*pubsub.Subscription
	subLock       gosync.Mutex
}

type config struct {
	p2p             p2p.Accessor
	clock           *startup.Clock
	quarantine      *quarantine.Quarantine
	syncChecker     SyncChecker
	requestManager  RequestManager
	subnetsProvider AttesterSubnetsProvider
	processor       MessageProcessor
}

// NewService initializes the sync service with its collaborators.
func NewService(ctx context.Context, opts ...Option) (*Service, error) {
	ctx, cancel := context.WithCancel(ctx)
	s := &Service{
		ctx:           ctx,
		cancel:        cancel,
		cfg:           &config{},
		subnets:       newSubnetState(),
		subscriptions: make(map[string]*pubsub.Subscription),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			cancel()
			return nil, err
		}
	}
	if s.cfg.p2p == nil {
		cancel()
		return nil, errors.New("sync service requires a p2p accessor")
	}
	if s.cfg.processor == nil {
		cancel()
		return nil, errors.New("sync service requires a message processor")
	}
	return s, nil
}

// Start registers the gossip validators once and launches the ancestor
// fetch loop. Topic subscriptions remain off until the gate enables them.
func (s *Service) Start() {
	digest, err := s.cfg.p2p.ForkDigest()
	if err != nil {
		log.WithError(err).Fatal("Could not compute fork digest")
	}
	s.digest = digest
	s.registerValidators()
	go s.ancestorFetchLoop()
}

// Stop cancels the loops. Topic subscriptions die with the pubsub router.
func (s *Service) Stop() error {
	s.cancel()
	return nil
}

// Status is always healthy once constructed; gossip being gated off is a
// deliberate state, not a failure.
func (_ *Service) Status() error {
	return nil
}

// ancestorFetchLoop wakes every second, and while initial sync is idle
// drains the quarantine's missing ancestors into the request manager. The
// observed lag behind wall clock is exported so event-loop starvation shows
// up on a dashboard.
func (s *Service) ancestorFetchLoop() {
	ticker := time.NewTicker(secondTickerInterval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			ticksDelay.Set(now.Sub(last).Seconds() - secondTickerInterval.Seconds())
			last = now
			s.fetchMissingAncestors()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Service) fetchMissingAncestors() {
	if s.cfg.quarantine == nil || s.cfg.syncChecker == nil || s.cfg.requestManager == nil {
		return
	}
	if s.cfg.syncChecker.Syncing() {
		return
	}
	roots := s.cfg.quarantine.MissingAncestors()
	if len(roots) == 0 {
		return
	}
	if err := s.cfg.requestManager.FetchAncestorBlocks(s.ctx, roots); err != nil {
		log.WithError(err).WithField("roots", len(roots)).Warn("Could not fetch ancestor blocks")
		return
	}
	s.cfg.quarantine.MarkRequested(roots)
	ancestorFetchesTotal.Inc()
}
