package kv

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/db/iface"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

// SaveGenesisData persists the genesis time, validators root and the
// serialized genesis state in one transaction. Saving a second, different
// genesis is rejected so that a node cannot silently switch networks.
func (s *Store) SaveGenesisData(ctx context.Context, genesisTime uint64, validatorsRoot []byte, state []byte) error {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.SaveGenesisData")
	defer span.End()

	if len(validatorsRoot) != 32 {
		return errors.Errorf("invalid genesis validators root length: %d", len(validatorsRoot))
	}
	enc, err := encode(ctx, state)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(genesisInfoBucket)
		if existing := bkt.Get(genesisValidatorsRootKey); existing != nil {
			if bytes.Equal(existing, validatorsRoot) {
				return nil
			}
			return iface.ErrExistingGenesisState
		}
		var timeBytes [8]byte
		binary.LittleEndian.PutUint64(timeBytes[:], genesisTime)
		if err := bkt.Put(genesisTimeKey, timeBytes[:]); err != nil {
			return err
		}
		if err := bkt.Put(genesisValidatorsRootKey, validatorsRoot); err != nil {
			return err
		}
		return bkt.Put(genesisStateKey, enc)
	})
}

// GenesisState returns the serialized genesis state, or nil when no genesis
// has been saved.
func (s *Store) GenesisState(ctx context.Context) ([]byte, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.GenesisState")
	defer span.End()

	var state []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(genesisInfoBucket).Get(genesisStateKey)
		if enc == nil {
			return nil
		}
		var err error
		state, err = decode(ctx, enc)
		return err
	})
	return state, err
}

// GenesisTime returns the saved genesis unix time in seconds.
func (s *Store) GenesisTime(ctx context.Context) (uint64, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.GenesisTime")
	defer span.End()

	var genesisTime uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(genesisInfoBucket).Get(genesisTimeKey)
		if enc == nil {
			return errors.New("no genesis time saved")
		}
		genesisTime = binary.LittleEndian.Uint64(enc)
		return nil
	})
	return genesisTime, err
}

// GenesisValidatorsRoot returns the saved genesis validators root, or nil
// when no genesis has been saved.
func (s *Store) GenesisValidatorsRoot(ctx context.Context) ([]byte, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.GenesisValidatorsRoot")
	defer span.End()

	var root []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(genesisInfoBucket).Get(genesisValidatorsRootKey)
		if enc == nil {
			return nil
		}
		root = append([]byte{}, enc...)
		return nil
	})
	return root, err
}

// LoadGenesis reads a serialized genesis state from the reader and persists
// it. The first 40 bytes of the blob carry the genesis time and the
// validators root follows, matching the layout produced by the testnet
// tooling.
func (s *Store) LoadGenesis(ctx context.Context, r io.Reader) error {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.LoadGenesis")
	defer span.End()

	blob, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	genesisTime, validatorsRoot, err := parseGenesisBlob(blob)
	if err != nil {
		return err
	}
	return s.SaveGenesisData(ctx, genesisTime, validatorsRoot, blob)
}

// parseGenesisBlob extracts the genesis time and validators root from a
// serialized genesis state. The state layout opens with the 8-byte genesis
// time followed by the 32-byte genesis validators root.
func parseGenesisBlob(blob []byte) (uint64, []byte, error) {
	if len(blob) < 40 {
		return 0, nil, errors.Errorf("genesis state blob too short: %d bytes", len(blob))
	}
	genesisTime := binary.LittleEndian.Uint64(blob[0:8])
	validatorsRoot := append([]byte{}, blob[8:40]...)
	return genesisTime, validatorsRoot, nil
}
