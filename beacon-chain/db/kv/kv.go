// Package kv defines a bolt-db, key-value store implementation of the
// beacon node's persistent storage.
package kv

import (
	"context"
	"os"
	"path"
	"time"

	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/db/iface"
	bolt "go.etcd.io/bbolt"
)

var _ iface.Database = (*Store)(nil)

const (
	// DatabaseFileName is the name of the beacon node database.
	DatabaseFileName = "beaconchain.db"
	// BeaconNodeDbDirName is the name of the directory containing the
	// beacon node database.
	BeaconNodeDbDirName = "beaconchaindata"

	boltAllocSize = 8 * 1024 * 1024
)

// blockedBuckets are buckets that no longer exist in the current schema and
// are removed on open.
var blockedBuckets = [][]byte{
	[]byte("archived-index"),
}

// Store defines an implementation of the beacon node database interface
// using BoltDB as the underlying persistent kv-store.
type Store struct {
	db           *bolt.DB
	databasePath string
	ctx          context.Context
}

// NewKVStore initializes a new boltDB key-value store at the directory
// path specified, creates the kv-buckets based on the schema, and stores
// an open connection db object as a property of the Store struct.
func NewKVStore(ctx context.Context, dirPath string) (*Store, error) {
	hasDir, err := hasDirAt(dirPath)
	if err != nil {
		return nil, err
	}
	if !hasDir {
		if err := os.MkdirAll(dirPath, 0700); err != nil {
			return nil, err
		}
	}
	datafile := StoreDatafilePath(dirPath)
	log.WithField("path", datafile).Info("Opening Bolt DB")
	boltDB, err := bolt.Open(
		datafile,
		0600,
		&bolt.Options{
			Timeout:         1 * time.Second,
			InitialMmapSize: 10e6,
		},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}
	boltDB.AllocSize = boltAllocSize

	kv := &Store{
		db:           boltDB,
		databasePath: dirPath,
		ctx:          ctx,
	}
	if err := kv.db.Update(func(tx *bolt.Tx) error {
		return createBuckets(
			tx,
			chainMetadataBucket,
			genesisInfoBucket,
		)
	}); err != nil {
		return nil, err
	}
	if err := kv.db.Update(deleteBlockedBuckets); err != nil {
		return nil, err
	}
	return kv, nil
}

// StoreDatafilePath is the canonical construction of a full datafile path
// from the directory path, so that code outside this package can find the
// full path in a consistent way.
func StoreDatafilePath(dirPath string) string {
	return path.Join(dirPath, DatabaseFileName)
}

func createBuckets(tx *bolt.Tx, buckets ...[]byte) error {
	for _, bucket := range buckets {
		if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
			return err
		}
	}
	return nil
}

func deleteBlockedBuckets(tx *bolt.Tx) error {
	for _, bkt := range blockedBuckets {
		if b := tx.Bucket(bkt); b != nil {
			if err := tx.DeleteBucket(bkt); err != nil {
				return err
			}
		}
	}
	return nil
}

func hasDirAt(dirPath string) (bool, error) {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// ClearDB removes the previously stored database in the data directory.
func (s *Store) ClearDB() error {
	if _, err := os.Stat(StoreDatafilePath(s.databasePath)); os.IsNotExist(err) {
		return nil
	}
	if err := s.Close(); err != nil {
		return errors.Wrap(err, "failed to close db prior to clearing")
	}
	if err := os.Remove(StoreDatafilePath(s.databasePath)); err != nil {
		return errors.Wrap(err, "could not remove database file")
	}
	return nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DatabasePath at which this database writes files.
func (s *Store) DatabasePath() string {
	return s.databasePath
}
