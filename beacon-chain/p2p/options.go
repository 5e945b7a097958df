package p2p

import (
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/pkg/errors"
)

// Option configures the p2p service during construction.
type Option func(*Service) error

// WithHost injects the libp2p host the service runs on.
func WithHost(h host.Host) Option {
	return func(s *Service) error {
		s.host = h
		return nil
	}
}

// WithPubSub injects the gossipsub router.
func WithPubSub(ps *pubsub.PubSub) Option {
	return func(s *Service) error {
		s.pubsub = ps
		return nil
	}
}

// WithDataDir sets the directory holding the persistent network key and the
// serialized node record.
func WithDataDir(dir string) Option {
	return func(s *Service) error {
		if dir == "" {
			return errors.New("data directory cannot be empty")
		}
		s.cfg.dataDir = dir
		return nil
	}
}

// WithTCPPort sets the port the libp2p host listens on.
func WithTCPPort(port uint) Option {
	return func(s *Service) error {
		s.cfg.tcpPort = port
		return nil
	}
}

// WithGenesisValidatorsRoot sets the root qualifying the fork digest of all
// gossip topics.
func WithGenesisValidatorsRoot(root []byte) Option {
	return func(s *Service) error {
		if len(root) != 32 {
			return errors.Errorf("invalid genesis validators root length: %d", len(root))
		}
		s.cfg.genesisValidatorsRoot = root
		return nil
	}
}
