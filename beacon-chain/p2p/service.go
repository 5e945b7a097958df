// Package p2p implements the networking surface of the beacon node: gossip
// topic management, the local node record, and the metadata exchanged with
// peers.
package p2p

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/p2p/enode"
	"github.com/libp2p/go-libp2p"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/p2p/encoder"
	"github.com/ralexstokes/nimbus-eth2/config/params"
)

var _ Accessor = (*Service)(nil)

// Service manages the pubsub topics, the node record and the peer metadata
// of the beacon node. The libp2p host and gossipsub router are injected by
// the node at construction time.
type Service struct {
	ctx              context.Context
	cancel           context.CancelFunc
	cfg              *config
	host             host.Host
	pubsub           *pubsub.PubSub
	privKey          *ecdsa.PrivateKey
	localNode        *enode.LocalNode
	peerDB           *enode.DB
	metaData         *MetadataV0
	metaDataLock     sync.RWMutex
	joinedTopics     map[string]*pubsub.Topic
	joinedTopicsLock sync.Mutex
	started          bool
}

type config struct {
	dataDir               string
	tcpPort               uint
	genesisValidatorsRoot []byte
}

// NewService initializes a new p2p service. A host and pubsub router are
// created on Start unless injected through options.
func NewService(ctx context.Context, opts ...Option) (*Service, error) {
	ctx, cancel := context.WithCancel(ctx)
	s := &Service{
		ctx:          ctx,
		cancel:       cancel,
		cfg:          &config{tcpPort: defaultTCPPort},
		joinedTopics: make(map[string]*pubsub.Topic),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			cancel()
			return nil, err
		}
	}
	return s, nil
}

// defaultTCPPort is the port the libp2p host listens on when none is
// configured.
const defaultTCPPort = 13000

// Start builds the libp2p host if one was not injected, then builds the
// local node record with the fork and subnet entries and persists it to
// disk.
func (s *Service) Start() {
	key, err := privKey(s.cfg.dataDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to load network key")
	}
	s.privKey = key

	if s.host == nil {
		ifaceKey, err := convertToInterfacePrivkey(key)
		if err != nil {
			log.WithError(err).Fatal("Failed to convert network key")
		}
		h, err := libp2p.New(
			libp2p.Identity(ifaceKey),
			libp2p.ListenAddrStrings(fmt.Sprintf("/ip4/0.0.0.0/tcp/%d", s.cfg.tcpPort)),
		)
		if err != nil {
			log.WithError(err).Fatal("Failed to create libp2p host")
		}
		s.host = h
	}
	if s.pubsub == nil {
		ps, err := pubsub.NewGossipSub(s.ctx, s.host)
		if err != nil {
			log.WithError(err).Fatal("Failed to create gossipsub router")
		}
		s.pubsub = ps
	}

	db, err := enode.OpenDB("")
	if err != nil {
		log.WithError(err).Fatal("Failed to open node record database")
	}
	s.peerDB = db
	localNode := enode.NewLocalNode(db, key)
	localNode = s.initializeAttSubnets(localNode)
	localNode, err = addForkEntry(localNode, s.cfg.genesisValidatorsRoot)
	if err != nil {
		log.WithError(err).Fatal("Failed to add fork entry to node record")
	}
	s.localNode = localNode

	if err := writeEnrToDisk(s.cfg.dataDir, s.localNode); err != nil {
		log.WithError(err).Error("Failed to write node record to disk")
	}

	s.started = true
	log.WithField("peer", s.host.ID().String()).Info("Running node with peer id")
}

// Stop closes all joined topics and releases the node record database.
func (s *Service) Stop() error {
	s.started = false
	s.cancel()
	s.joinedTopicsLock.Lock()
	defer s.joinedTopicsLock.Unlock()
	for name, t := range s.joinedTopics {
		if err := t.Close(); err != nil {
			log.WithError(err).WithField("topic", name).Error("Failed to close topic")
		}
		delete(s.joinedTopics, name)
	}
	if s.host != nil {
		if err := s.host.Close(); err != nil {
			log.WithError(err).Error("Failed to close libp2p host")
		}
	}
	if s.peerDB != nil {
		s.peerDB.Close()
	}
	return nil
}

// Status of the p2p service. Returns an error if the service is considered
// unhealthy.
func (s *Service) Status() error {
	if !s.started {
		return errors.New("not running")
	}
	return nil
}

// Encoding returns the wire encoding used on all topics and streams.
func (_ *Service) Encoding() encoder.NetworkEncoding {
	return encoder.SszNetworkEncoder{}
}

// PubSub returns the gossipsub router.
func (s *Service) PubSub() *pubsub.PubSub {
	return s.pubsub
}

// Host returns the currently running libp2p host.
func (s *Service) Host() host.Host {
	return s.host
}

// PeerID returns the identity of the local peer.
func (s *Service) PeerID() peer.ID {
	return s.host.ID()
}

// Metadata returns a copy of the peer's current metadata record.
func (s *Service) Metadata() *MetadataV0 {
	s.metaDataLock.RLock()
	defer s.metaDataLock.RUnlock()
	return s.metaData.Copy()
}

// MetadataSeq returns the metadata sequence number.
func (s *Service) MetadataSeq() uint64 {
	s.metaDataLock.RLock()
	defer s.metaDataLock.RUnlock()
	return s.metaData.SeqNumber
}

// ENR returns the local node record, or nil before Start.
func (s *Service) ENR() *enode.Node {
	if s.localNode == nil {
		return nil
	}
	return s.localNode.Node()
}

// ForkDigest returns the digest qualifying every gossip topic of the current
// network.
func (s *Service) ForkDigest() ([4]byte, error) {
	return ComputeForkDigest(params.BeaconConfig().GenesisForkVersion, s.cfg.genesisValidatorsRoot)
}
