// Package helpers contains consensus arithmetic shared between the node
// lifecycle and the command-line tooling.
package helpers

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/config/params"
	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
	"github.com/ralexstokes/nimbus-eth2/encoding/bytesutil"
)

// Checkpoint identifies a finalized block root at an epoch boundary.
type Checkpoint struct {
	Root  [32]byte
	Epoch primitives.Epoch
}

// ComputeWeakSubjectivityPeriod returns the number of epochs a checkpoint
// stays safe to sync from:
//
//	wsp = MIN_VALIDATOR_WITHDRAWABILITY_DELAY + SAFETY_DECAY * Q / 200
//
// where Q is the churn limit quotient when the validator set is large
// enough to saturate the per-epoch churn, and active/MIN_PER_EPOCH_CHURN_LIMIT
// otherwise. All arithmetic is integer with truncation; zero active
// validators degenerate to the bare withdrawability delay.
func ComputeWeakSubjectivityPeriod(activeValidators uint64, cfg *params.BeaconChainConfig) primitives.Epoch {
	q := cfg.ChurnLimitQuotient
	if activeValidators < cfg.MinPerEpochChurnLimit*cfg.ChurnLimitQuotient {
		q = activeValidators / cfg.MinPerEpochChurnLimit
	}
	return cfg.MinValidatorWithdrawabilityDelay.Add(cfg.SafetyDecay * q / 200)
}

// IsWithinWeakSubjectivityPeriod reports whether the checkpoint is still
// recent enough for the chain to be trusted from it at the current epoch.
func IsWithinWeakSubjectivityPeriod(currentEpoch primitives.Epoch, activeValidators uint64, checkpoint Checkpoint, cfg *params.BeaconChainConfig) bool {
	wsp := ComputeWeakSubjectivityPeriod(activeValidators, cfg)
	return checkpoint.Epoch.Add(uint64(wsp)) >= currentEpoch
}

// ParseWeakSubjectivityInputString parses a checkpoint supplied on the
// command line in `block_root:epoch_number` format, with an optional 0x
// prefix on the root.
func ParseWeakSubjectivityInputString(input string) (*Checkpoint, error) {
	if input == "" {
		return nil, nil
	}
	parts := strings.Split(input, ":")
	if len(parts) != 2 {
		return nil, errors.New("weak subjectivity checkpoint input should be in `block_root:epoch_number` format")
	}
	rootStr := strings.TrimPrefix(parts[0], "0x")
	root, err := bytesutil.DecodeHexWithLength(rootStr, 32)
	if err != nil {
		return nil, errors.Wrap(err, "invalid block root")
	}
	epoch, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "invalid epoch number")
	}
	return &Checkpoint{
		Root:  bytesutil.ToBytes32(root),
		Epoch: primitives.Epoch(epoch),
	}, nil
}
