// Package kv defines a bolt-db, key-value store implementation of the
// validator slashing protection database.
package kv

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/validator/db/iface"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

var log = logrus.WithField("prefix", "validator-db")

var _ iface.ValidatorDB = (*Store)(nil)

const (
	// ProtectionDbFileName of the validator slashing protection database.
	ProtectionDbFileName = "validator.db"
)

// Store defines an implementation of the validator slashing protection
// database using BoltDB as the underlying persistent kv-store.
type Store struct {
	db           *bolt.DB
	databasePath string
}

// NewKVStore initializes a new boltDB key-value store at the directory
// path specified and creates the kv-buckets based on the schema.
func NewKVStore(ctx context.Context, dirPath string) (*Store, error) {
	if err := os.MkdirAll(dirPath, 0700); err != nil {
		return nil, err
	}
	datafile := filepath.Join(dirPath, ProtectionDbFileName)
	log.WithField("path", datafile).Info("Opening slashing protection DB")
	boltDB, err := bolt.Open(datafile, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}

	kv := &Store{
		db:           boltDB,
		databasePath: dirPath,
	}
	if err := kv.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{
			genesisInfoBucket,
			lowestSignedProposalsBucket,
			lowestSignedSourceBucket,
			lowestSignedTargetBucket,
		} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return kv, nil
}

// DatabasePath at which this database writes files.
func (s *Store) DatabasePath() string {
	return s.databasePath
}

// ClearDB removes any previously stored data at the configured data
// directory.
func (s *Store) ClearDB() error {
	datafile := filepath.Join(s.databasePath, ProtectionDbFileName)
	if _, err := os.Stat(datafile); os.IsNotExist(err) {
		return nil
	}
	if err := s.Close(); err != nil {
		return errors.Wrap(err, "failed to close db prior to clearing")
	}
	return os.Remove(datafile)
}

// Close closes the underlying boltdb database.
func (s *Store) Close() error {
	return s.db.Close()
}
