package sync

import (
	"context"

	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
)

// ErrIgnore is returned by a MessageProcessor when a gossip message is
// neither valid nor provably invalid, for example when its target state is
// not available yet. The message is dropped without penalizing the sender.
var ErrIgnore = errors.New("ignored gossip message")

// SyncChecker exposes the sync manager's progress to the rest of the node.
type SyncChecker interface {
	// Syncing reports whether initial block sync is in progress.
	Syncing() bool
	// SyncQueueLen reports how many slots of work remain queued. The value
	// derives from unsigned arithmetic and can report pathological numbers
	// when debts exceed forward progress.
	SyncQueueLen() uint64
}

// RequestManager issues peer-parallel by-root block requests. Completed
// blocks flow to the processor's block queue, never back to the caller.
type RequestManager interface {
	FetchAncestorBlocks(ctx context.Context, roots [][32]byte) error
}

// AttesterSubnetsProvider reports the attestation subnets the attached
// validators are assigned to.
type AttesterSubnetsProvider interface {
	// HasValidators reports whether any validators are attached to this
	// node.
	HasValidators() bool
	// SubnetsForEpoch returns the subnet IDs the attached validators must
	// listen on during the given epoch.
	SubnetsForEpoch(epoch primitives.Epoch) []uint64
}

// MessageProcessor consumes gossip payloads after wire decoding. A nil
// return accepts the message for propagation, ErrIgnore drops it silently,
// any other error rejects it and penalizes the sender.
type MessageProcessor interface {
	OnBlock(ctx context.Context, payload []byte) error
	OnAttestation(ctx context.Context, subnet uint64, payload []byte) error
	OnAggregateAndProof(ctx context.Context, payload []byte) error
	OnVoluntaryExit(ctx context.Context, payload []byte) error
	OnProposerSlashing(ctx context.Context, payload []byte) error
	OnAttesterSlashing(ctx context.Context, payload []byte) error
}
