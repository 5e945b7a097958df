// Package p2ptest provides an in-process p2p fixture backed by a real
// libp2p host and gossipsub router, for packages that consume the p2p
// surface.
package p2ptest

import (
	"context"
	gosync "sync"
	"testing"

	"github.com/libp2p/go-libp2p"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/pkg/errors"
	bitfield "github.com/prysmaticlabs/go-bitfield"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/p2p"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/p2p/encoder"
	"github.com/ralexstokes/nimbus-eth2/config/params"
)

// TestP2P implements the p2p accessor surface over a loopback libp2p host.
// Subnet record updates are tracked in memory so tests can assert on the
// advertised bitfield and sequence number.
type TestP2P struct {
	host   host.Host
	pubsub *pubsub.PubSub

	lock         gosync.Mutex
	joinedTopics map[string]*pubsub.Topic
	metadata     *p2p.MetadataV0
}

var _ p2p.Accessor = (*TestP2P)(nil)

// NewTestP2P instantiates a fixture listening on an ephemeral loopback
// port. Resources are released through t.Cleanup.
func NewTestP2P(t *testing.T) *TestP2P {
	t.Helper()
	h, err := libp2p.New(libp2p.ListenAddrStrings("/ip4/127.0.0.1/tcp/0"))
	if err != nil {
		t.Fatalf("could not create libp2p host: %v", err)
	}
	t.Cleanup(func() {
		if err := h.Close(); err != nil {
			t.Errorf("could not close host: %v", err)
		}
	})
	ps, err := pubsub.NewGossipSub(context.Background(), h)
	if err != nil {
		t.Fatalf("could not create gossipsub: %v", err)
	}
	return &TestP2P{
		host:         h,
		pubsub:       ps,
		joinedTopics: make(map[string]*pubsub.Topic),
		metadata: &p2p.MetadataV0{
			SeqNumber: 0,
			Attnets:   bitfield.NewBitvector64(),
		},
	}
}

// Encoding implements the accessor surface.
func (_ *TestP2P) Encoding() encoder.NetworkEncoding {
	return encoder.SszNetworkEncoder{}
}

// PubSub implements the accessor surface.
func (p *TestP2P) PubSub() *pubsub.PubSub {
	return p.pubsub
}

// Host exposes the underlying libp2p host for peering tests.
func (p *TestP2P) Host() host.Host {
	return p.host
}

// PeerID implements the accessor surface.
func (p *TestP2P) PeerID() peer.ID {
	return p.host.ID()
}

// ForkDigest derives the digest from the genesis fork version and a zero
// genesis validators root.
func (_ *TestP2P) ForkDigest() ([4]byte, error) {
	return p2p.ComputeForkDigest(params.BeaconConfig().GenesisForkVersion, make([]byte, 32))
}

// JoinTopic implements the accessor surface.
func (p *TestP2P) JoinTopic(topic string, opts ...pubsub.TopicOpt) (*pubsub.Topic, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if t, ok := p.joinedTopics[topic]; ok {
		return t, nil
	}
	t, err := p.pubsub.Join(topic, opts...)
	if err != nil {
		return nil, err
	}
	p.joinedTopics[topic] = t
	return t, nil
}

// LeaveTopic implements the accessor surface.
func (p *TestP2P) LeaveTopic(topic string) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	t, ok := p.joinedTopics[topic]
	if !ok {
		return nil
	}
	if err := t.Close(); err != nil {
		return err
	}
	delete(p.joinedTopics, topic)
	return nil
}

// PublishToTopic implements the accessor surface. Unlike the production
// service it does not wait for peers.
func (p *TestP2P) PublishToTopic(ctx context.Context, topic string, data []byte, opts ...pubsub.PubOpt) error {
	t, err := p.JoinTopic(topic)
	if err != nil {
		return errors.Wrapf(err, "could not join topic %s", topic)
	}
	return t.Publish(ctx, data, opts...)
}

// SubscribeToTopic implements the accessor surface.
func (p *TestP2P) SubscribeToTopic(topic string, opts ...pubsub.SubOpt) (*pubsub.Subscription, error) {
	t, err := p.JoinTopic(topic)
	if err != nil {
		return nil, errors.Wrapf(err, "could not join topic %s", topic)
	}
	return t.Subscribe(opts...)
}

// Metadata implements the accessor surface.
func (p *TestP2P) Metadata() *p2p.MetadataV0 {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.metadata.Copy()
}

// MetadataSeq implements the accessor surface.
func (p *TestP2P) MetadataSeq() uint64 {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.metadata.SequenceNumber()
}

// UpdateSubnetRecordWithMetadata mirrors the production single-increment
// semantics without touching a node record.
func (p *TestP2P) UpdateSubnetRecordWithMetadata(bitV bitfield.Bitvector64) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.metadata = &p2p.MetadataV0{
		SeqNumber: p.metadata.SeqNumber + 1,
		Attnets:   bitV,
	}
}
