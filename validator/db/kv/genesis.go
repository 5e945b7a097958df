package kv

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// GenesisValidatorsRoot retrieves the genesis validators root this
// protection database is bound to, or nil when unset.
func (s *Store) GenesisValidatorsRoot(_ context.Context) ([]byte, error) {
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

// SaveGenesisValidatorsRoot binds the protection database to a network. A
// mismatching root is rejected so that protection records from one network
// can never vouch for signatures on another.
func (s *Store) SaveGenesisValidatorsRoot(_ context.Context, genValRoot []byte) error {
	if len(genValRoot) != 32 {
		return errors.Errorf("invalid genesis validators root length: %d", len(genValRoot))
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(genesisInfoBucket)
		existing := bkt.Get(genesisValidatorsRootKey)
		if existing != nil {
			if bytes.Equal(existing, genValRoot) {
				return nil
			}
			return errors.New("genesis validators root does not match the one stored in slashing protection db")
		}
		return bkt.Put(genesisValidatorsRootKey, genValRoot)
	})
}
