package p2p

import (
	"context"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	bitfield "github.com/prysmaticlabs/go-bitfield"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/p2p/encoder"
)

// Accessor is the full p2p surface consumed by the sync package.
type Accessor interface {
	EncodingProvider
	PubSubProvider
	PubSubTopicUser
	MetadataProvider
	PeerIDProvider
	ForkDigestProvider
	SubnetRecordUpdater
}

// EncodingProvider provides p2p network encoding.
type EncodingProvider interface {
	Encoding() encoder.NetworkEncoding
}

// PubSubProvider provides the p2p pubsub protocol.
type PubSubProvider interface {
	PubSub() *pubsub.PubSub
}

// PubSubTopicUser provides way to join, use and leave PubSub topics.
type PubSubTopicUser interface {
	JoinTopic(topic string, opts ...pubsub.TopicOpt) (*pubsub.Topic, error)
	LeaveTopic(topic string) error
	PublishToTopic(ctx context.Context, topic string, data []byte, opts ...pubsub.PubOpt) error
	SubscribeToTopic(topic string, opts ...pubsub.SubOpt) (*pubsub.Subscription, error)
}

// MetadataProvider returns the metadata related information for the local peer.
type MetadataProvider interface {
	Metadata() *MetadataV0
	MetadataSeq() uint64
}

// PeerIDProvider returns the identity of the local peer.
type PeerIDProvider interface {
	PeerID() peer.ID
}

// ForkDigestProvider exposes the digest qualifying every gossip topic.
type ForkDigestProvider interface {
	ForkDigest() ([4]byte, error)
}

// SubnetRecordUpdater refreshes the advertised attestation subnets of the
// local peer.
type SubnetRecordUpdater interface {
	UpdateSubnetRecordWithMetadata(bitV bitfield.Bitvector64)
}

// HostProvider exposes the raw libp2p host.
type HostProvider interface {
	Host() host.Host
}
