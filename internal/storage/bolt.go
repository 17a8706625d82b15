package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/johanforsgren/repodeck/internal/domain"
	"github.com/johanforsgren/repodeck/internal/logger"
	"go.etcd.io/bbolt"
)

const boltBucketRepos = "repos" // key: zero-padded position -> record JSON

var _ domain.TrackedStore = (*BoltRepository)(nil)

type BoltRepository struct {
	path string
	db   *bbolt.DB
}

func NewBoltRepository(dir string) (*BoltRepository, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	path := filepath.Join(dir, boltFile)
	logger.LogFileOpen(path)
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		logger.LogError("BOLT_OPEN", path, err)
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketRepos))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltRepository{path: path, db: db}, nil
}

func (b *BoltRepository) Load() ([]domain.TrackedRepository, error) {
	var records []record

	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketRepos)).ForEach(func(_, v []byte) error {
			var rec record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		logger.LogError("BOLT_LOAD", b.path, err)
		return nil, fmt.Errorf("failed to read tracked list: %w", err)
	}

	logger.Log("Tracked list loaded", "path", b.path, "count", len(records))
	return fromRecords(records), nil
}

// Save replaces the whole bucket in one transaction.
func (b *BoltRepository) Save(repos []domain.TrackedRepository) error {
	logger.LogFileWrite(b.path)
	err := b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(boltBucketRepos)); err != nil {
			return err
		}
		bucket, err := tx.CreateBucket([]byte(boltBucketRepos))
		if err != nil {
			return err
		}

		for i, rec := range toRecords(repos) {
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := bucket.Put([]byte(fmt.Sprintf("%08d", i)), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.LogError("BOLT_SAVE", b.path, err)
		return fmt.Errorf("failed to save tracked list: %w", err)
	}

	logger.Log("Tracked list saved", "path", b.path, "count", len(repos))
	return nil
}

func (b *BoltRepository) Close() error {
	return b.db.Close()
}
