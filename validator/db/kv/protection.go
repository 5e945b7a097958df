package kv

import (
	"context"

	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
	"github.com/ralexstokes/nimbus-eth2/encoding/bytesutil"
	bolt "go.etcd.io/bbolt"
)

// LowestSignedProposal returns the lowest signed proposal slot for a
// validator public key. If no data exists, a boolean of false is returned.
func (s *Store) LowestSignedProposal(_ context.Context, publicKey [48]byte) (primitives.Slot, bool, error) {
	var slot primitives.Slot
	var exists bool
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(lowestSignedProposalsBucket).Get(publicKey[:])
		if enc == nil {
			return nil
		}
		exists = true
		slot = primitives.Slot(bytesutil.FromBytes8(enc))
		return nil
	})
	return slot, exists, err
}

// SaveLowestSignedProposal saves the lowest signed proposal slot for a
// validator public key if it is lower than the one currently stored.
func (s *Store) SaveLowestSignedProposal(_ context.Context, publicKey [48]byte, slot primitives.Slot) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(lowestSignedProposalsBucket)
		enc := bkt.Get(publicKey[:])
		if enc != nil && primitives.Slot(bytesutil.FromBytes8(enc)) <= slot {
			return nil
		}
		return bkt.Put(publicKey[:], bytesutil.Bytes8(uint64(slot)))
	})
}

// LowestSignedSourceEpoch returns the lowest signed source epoch for a
// validator public key. If no data exists, a boolean of false is returned.
func (s *Store) LowestSignedSourceEpoch(_ context.Context, publicKey [48]byte) (primitives.Epoch, bool, error) {
	return s.lowestSignedEpoch(lowestSignedSourceBucket, publicKey)
}

// LowestSignedTargetEpoch returns the lowest signed target epoch for a
// validator public key. If no data exists, a boolean of false is returned.
func (s *Store) LowestSignedTargetEpoch(_ context.Context, publicKey [48]byte) (primitives.Epoch, bool, error) {
	return s.lowestSignedEpoch(lowestSignedTargetBucket, publicKey)
}

func (s *Store) lowestSignedEpoch(bucket []byte, publicKey [48]byte) (primitives.Epoch, bool, error) {
	var epoch primitives.Epoch
	var exists bool
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(bucket).Get(publicKey[:])
		if enc == nil {
			return nil
		}
		exists = true
		epoch = primitives.Epoch(bytesutil.FromBytes8(enc))
		return nil
	})
	return epoch, exists, err
}

// SaveLowestSignedAttestation saves the lowest signed source and target
// epochs for a validator public key, keeping each bucket's value monotone
// downward.
func (s *Store) SaveLowestSignedAttestation(_ context.Context, publicKey [48]byte, source, target primitives.Epoch) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := saveIfLower(tx.Bucket(lowestSignedSourceBucket), publicKey, uint64(source)); err != nil {
			return err
		}
		return saveIfLower(tx.Bucket(lowestSignedTargetBucket), publicKey, uint64(target))
	})
}

func saveIfLower(bkt *bolt.Bucket, publicKey [48]byte, val uint64) error {
	enc := bkt.Get(publicKey[:])
	if enc != nil && bytesutil.FromBytes8(enc) <= val {
		return nil
	}
	return bkt.Put(publicKey[:], bytesutil.Bytes8(val))
}
