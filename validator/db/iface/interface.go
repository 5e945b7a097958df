// Package iface defines an interface for the validator database.
package iface

import (
	"context"

	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
)

// ValidatorDB defines the persistence required for local slashing
// protection: the lowest signed proposal slot and the lowest signed
// attestation source and target epochs per validator.
type ValidatorDB interface {
	GenesisValidatorsRoot(ctx context.Context) ([]byte, error)
	SaveGenesisValidatorsRoot(ctx context.Context, genValRoot []byte) error

	LowestSignedProposal(ctx context.Context, publicKey [48]byte) (primitives.Slot, bool, error)
	SaveLowestSignedProposal(ctx context.Context, publicKey [48]byte, slot primitives.Slot) error

	LowestSignedSourceEpoch(ctx context.Context, publicKey [48]byte) (primitives.Epoch, bool, error)
	LowestSignedTargetEpoch(ctx context.Context, publicKey [48]byte) (primitives.Epoch, bool, error)
	SaveLowestSignedAttestation(ctx context.Context, publicKey [48]byte, source, target primitives.Epoch) error

	DatabasePath() string
	ClearDB() error
	Close() error
}
