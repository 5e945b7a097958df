// Package iface defines the interface for the beacon node's persistent
// storage so that callers never depend on the bolt-backed implementation
// directly.
package iface

import (
	"context"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// ErrExistingGenesisState is returned when the caller attempts to save a
// different genesis state while one already exists in the database.
var ErrExistingGenesisState = errors.New("genesis state exists already in the DB")

// ReadOnlyDatabase exposes the persistent chain data for read access.
type ReadOnlyDatabase interface {
	GenesisState(ctx context.Context) ([]byte, error)
	GenesisTime(ctx context.Context) (uint64, error)
	GenesisValidatorsRoot(ctx context.Context) ([]byte, error)
	DepositContractAddress(ctx context.Context) ([]byte, error)
	DatabasePath() string
}

// NoHeadAccessDatabase exposes the persistent chain data for read and write
// access.
type NoHeadAccessDatabase interface {
	ReadOnlyDatabase

	SaveGenesisData(ctx context.Context, genesisTime uint64, validatorsRoot []byte, state []byte) error
	SaveDepositContractAddress(ctx context.Context, addr common.Address) error
	ClearDB() error
	Close() error
}

// Database is the full database interface. Prefer a more restrictive
// interface where possible.
type Database interface {
	NoHeadAccessDatabase

	LoadGenesis(ctx context.Context, r io.Reader) error
	Backup(ctx context.Context, outputDir string) error
}
