package p2p

import (
	"context"
	"testing"

	gcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/p2p/enode"
	"github.com/libp2p/go-libp2p"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/ralexstokes/nimbus-eth2/testing/assert"
	"github.com/ralexstokes/nimbus-eth2/testing/require"
)

func newTestLocalNode(t *testing.T) *enode.LocalNode {
	t.Helper()
	key, err := gcrypto.GenerateKey()
	require.NoError(t, err)
	db, err := enode.OpenDB("")
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return enode.NewLocalNode(db, key)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	h, err := libp2p.New(libp2p.ListenAddrStrings("/ip4/127.0.0.1/tcp/0"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, h.Close())
	})
	ps, err := pubsub.NewGossipSub(context.Background(), h)
	require.NoError(t, err)
	s, err := NewService(context.Background(),
		WithHost(h),
		WithPubSub(ps),
		WithDataDir(t.TempDir()),
		WithGenesisValidatorsRoot(make([]byte, 32)),
	)
	require.NoError(t, err)
	return s
}

func TestService_JoinLeaveTopic(t *testing.T) {
	s := newTestService(t)

	topic := "/eth2/f5a5fd42/beacon_block" + s.Encoding().ProtocolSuffix()
	handle, err := s.JoinTopic(topic)
	require.NoError(t, err)
	require.NotNil(t, handle)

	// Joining again returns the same handle.
	again, err := s.JoinTopic(topic)
	require.NoError(t, err)
	assert.Equal(t, handle, again)

	sub, err := s.SubscribeToTopic(topic)
	require.NoError(t, err)
	require.NotNil(t, sub)

	// Leaving with a live subscription fails, topic remains joined.
	require.NotNil(t, s.LeaveTopic(topic))

	sub.Cancel()
	require.NoError(t, s.LeaveTopic(topic))
}

func TestService_StatusBeforeStart(t *testing.T) {
	s := newTestService(t)
	require.ErrorContains(t, "not running", s.Status())
}

func TestNewService_RejectsBadGenesisRoot(t *testing.T) {
	_, err := NewService(context.Background(), WithGenesisValidatorsRoot([]byte{1, 2, 3}))
	require.ErrorContains(t, "invalid genesis validators root length", err)
}
