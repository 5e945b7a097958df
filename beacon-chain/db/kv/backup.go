package kv

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

const backupsDirectoryName = "backups"

// Backup the database to the provided output directory. An empty outputDir
// places the backup under the database path.
func (s *Store) Backup(ctx context.Context, outputDir string) error {
	_, span := trace.StartSpan(ctx, "BeaconDB.Backup")
	defer span.End()

	var backupsDir string
	if outputDir != "" {
		backupsDir = path.Join(outputDir, backupsDirectoryName)
	} else {
		backupsDir = path.Join(s.databasePath, backupsDirectoryName)
	}
	if err := os.MkdirAll(backupsDir, 0700); err != nil {
		return err
	}
	backupPath := path.Join(backupsDir, fmt.Sprintf("beaconchain-backup-%d.db", time.Now().Unix()))
	log.WithField("path", backupPath).Info("Writing backup database")

	copyDB, err := bolt.Open(backupPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return errors.Wrap(err, "could not open backup database")
	}
	defer func() {
		if err := copyDB.Close(); err != nil {
			log.WithError(err).Error("Failed to close backup database")
		}
	}()

	return s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			return copyDB.Update(func(tx2 *bolt.Tx) error {
				b2, err := tx2.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return b.ForEach(b2.Put)
			})
		})
	})
}
