package sync

import (
	"math/rand"

	bitfield "github.com/prysmaticlabs/go-bitfield"
	"github.com/ralexstokes/nimbus-eth2/config/params"
	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
	"github.com/ralexstokes/nimbus-eth2/time/slots"
)

// subnetState tracks which attestation subnets the node listens on. Duty
// subnets live in two buckets keyed by epoch parity so that a rotation
// replaces the stale parity's assignments while the other parity keeps
// serving. The stability subnet is held independently of duties and only
// reshuffles when its expiration epoch passes.
type subnetState struct {
	subscribed          [2]map[uint64]bool
	stabilitySubnet     uint64
	stabilityExpiration primitives.Epoch
	hasStability        bool
}

func newSubnetState() *subnetState {
	return &subnetState{
		subscribed: [2]map[uint64]bool{
			make(map[uint64]bool),
			make(map[uint64]bool),
		},
	}
}

// union collects every subnet held in either parity bucket plus the
// stability subnet.
func (st *subnetState) union() map[uint64]bool {
	u := make(map[uint64]bool)
	for _, bucket := range st.subscribed {
		for subnet := range bucket {
			u[subnet] = true
		}
	}
	if st.hasStability {
		u[st.stabilitySubnet] = true
	}
	return u
}

func (s *Service) attestationSubnetCount() uint64 {
	return params.BeaconNetworkConfig().AttestationSubnetCount
}

// subnetsToBitfield renders a subnet set as the attnets bitfield advertised
// in the node record and metadata.
func subnetsToBitfield(subnets map[uint64]bool) bitfield.Bitvector64 {
	bitV := bitfield.NewBitvector64()
	for subnet := range subnets {
		bitV.SetBitAt(subnet, true)
	}
	return bitV
}

// pickStabilitySubnet draws a random stability subnet and an expiration
// lifetime of at least EpochsPerRandomSubnetSubscription epochs with up to
// that many more epochs of jitter.
func (s *Service) pickStabilitySubnet(current primitives.Epoch) {
	cfg := params.BeaconConfig()
	s.subnets.stabilitySubnet = rand.Uint64() % s.attestationSubnetCount()
	lifetime := cfg.EpochsPerRandomSubnetSubscription +
		primitives.Epoch(rand.Uint64())%cfg.EpochsPerRandomSubnetSubscription
	s.subnets.stabilityExpiration = current.Add(uint64(lifetime))
	s.subnets.hasStability = true
}

// installHandlers subscribes to the attestation subnet topics for the given
// subnets. Subnets already held are left untouched, so overlapping duty
// assignments never double-subscribe.
func (s *Service) installHandlers(subnets map[uint64]bool) {
	for subnet := range subnets {
		topic := s.attSubnetTopic(subnet)
		if s.subscribedTo(topic) {
			continue
		}
		if err := s.subscribe(topic); err != nil {
			log.WithError(err).WithField("subnet", subnet).Error("Could not subscribe to attestation subnet")
		}
	}
}

// initialSubscribe joins all attestation subnet topics, picks a stability
// subnet, and advertises the full assignment in a single metadata update.
// Called when the gossip gate opens.
func (s *Service) initialSubscribe() {
	current := slots.ToEpoch(s.currentSlot())
	all := make(map[uint64]bool, s.attestationSubnetCount())
	for i := uint64(0); i < s.attestationSubnetCount(); i++ {
		all[i] = true
	}
	s.subnets.subscribed[current%2] = all
	if !s.subnets.hasStability {
		s.pickStabilitySubnet(current)
	}
	s.installHandlers(s.subnets.union())
	s.cfg.p2p.UpdateSubnetRecordWithMetadata(subnetsToBitfield(s.subnets.union()))
	s.verifyAdvertisedSubnets()
}

// CycleSubnets rotates the duty subnets at an epoch boundary. The stale
// parity bucket is replaced with the provider's assignments for the next
// epoch; subnets leaving the union are unsubscribed and withdrawn from the
// advertisement before the new ones are installed and advertised, so peers
// never see a subnet the node no longer serves. Nodes without attached
// validators keep their current assignment untouched.
func (s *Service) CycleSubnets(slot primitives.Slot) {
	if s.cfg.subnetsProvider == nil || !s.cfg.subnetsProvider.HasValidators() {
		return
	}
	epoch := slots.ToEpoch(slot)
	oldUnion := s.subnets.union()

	if !s.subnets.hasStability || epoch >= s.subnets.stabilityExpiration {
		s.pickStabilitySubnet(epoch)
	}

	next := make(map[uint64]bool)
	for _, subnet := range s.cfg.subnetsProvider.SubnetsForEpoch(epoch.Add(1)) {
		next[subnet%s.attestationSubnetCount()] = true
	}
	s.subnets.subscribed[epoch.Add(1)%2] = next

	newUnion := s.subnets.union()
	expiring := make(map[uint64]bool)
	for subnet := range oldUnion {
		if !newUnion[subnet] {
			expiring[subnet] = true
		}
	}
	joining := make(map[uint64]bool)
	for subnet := range newUnion {
		if !oldUnion[subnet] {
			joining[subnet] = true
		}
	}

	if len(expiring) > 0 {
		for subnet := range expiring {
			if err := s.unsubscribe(s.attSubnetTopic(subnet)); err != nil {
				log.WithError(err).WithField("subnet", subnet).Error("Could not unsubscribe from attestation subnet")
			}
		}
		retained := make(map[uint64]bool)
		for subnet := range oldUnion {
			if !expiring[subnet] {
				retained[subnet] = true
			}
		}
		s.cfg.p2p.UpdateSubnetRecordWithMetadata(subnetsToBitfield(retained))
	}

	if len(joining) > 0 {
		s.installHandlers(newUnion)
		s.cfg.p2p.UpdateSubnetRecordWithMetadata(subnetsToBitfield(newUnion))
	}
	s.verifyAdvertisedSubnets()
}

// verifyAdvertisedSubnets checks that the advertised attnets bitfield
// matches the live subnet subscriptions. A mismatch means a mutation path
// skipped an advertisement and is logged loudly rather than papered over.
func (s *Service) verifyAdvertisedSubnets() {
	advertised := s.cfg.p2p.Metadata().AttnetsBitfield()
	for i := uint64(0); i < s.attestationSubnetCount(); i++ {
		if advertised.BitAt(i) != s.subnetJoined(i) {
			log.WithField("subnet", i).Error("Advertised attestation subnets diverge from live subscriptions")
			return
		}
	}
}

func (s *Service) subnetJoined(subnet uint64) bool {
	return s.subscribedTo(s.attSubnetTopic(subnet))
}

// currentSlot reads the wall-clock slot, or zero before genesis or without
// a clock.
func (s *Service) currentSlot() primitives.Slot {
	if s.cfg.clock == nil {
		return 0
	}
	return s.cfg.clock.SlotOrZero()
}
