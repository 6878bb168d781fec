package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	contentBucket  = "content"
	mimetypeBucket = "mimetype"
)

// BoltStore implements Store on a single-file bbolt database with one
// bucket per keyspace. This is the default backend for serving a snapshot
// from local disk.
type BoltStore struct {
	db *bolt.DB
}

// BoltConfig holds configuration for opening a bbolt snapshot.
type BoltConfig struct {
	Path     string // path to the .db file
	ReadOnly bool   // open for serving only, no bucket creation
}

// OpenBolt opens (or, when not read-only, creates) a snapshot database.
func OpenBolt(cfg BoltConfig) (*BoltStore, error) {
	if cfg.ReadOnly {
		if _, err := os.Stat(cfg.Path); err != nil {
			return nil, fmt.Errorf("snapshot database %s: %w", cfg.Path, err)
		}
	}

	db, err := bolt.Open(cfg.Path, 0o644, &bolt.Options{
		ReadOnly: cfg.ReadOnly,
		Timeout:  5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database %s: %w", cfg.Path, err)
	}

	if !cfg.ReadOnly {
		err = db.Update(func(tx *bolt.Tx) error {
			for _, name := range []string{contentBucket, mimetypeBucket} {
				if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("initializing snapshot buckets: %w", err)
		}
	}

	return &BoltStore{db: db}, nil
}

// Get retrieves the stored body and mimetype for key.
func (s *BoltStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	var (
		content  []byte
		mimetype string
	)

	err := s.db.View(func(tx *bolt.Tx) error {
		cb := tx.Bucket([]byte(contentBucket))
		mb := tx.Bucket([]byte(mimetypeBucket))
		if cb == nil || mb == nil {
			return ErrNotFound
		}

		c := cb.Get([]byte(key))
		m := mb.Get([]byte(key))
		if c == nil || m == nil {
			return ErrNotFound
		}

		// Values are only valid inside the transaction.
		content = append([]byte(nil), c...)
		mimetype = string(m)
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	return content, mimetype, nil
}

// Put stores a record under key.
func (s *BoltStore) Put(ctx context.Context, key string, content []byte, mimetype string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(contentBucket)).Put([]byte(key), content); err != nil {
			return err
		}
		return tx.Bucket([]byte(mimetypeBucket)).Put([]byte(key), []byte(mimetype))
	})
}

// Snapshot writes a consistent copy of the database to w. Safe to run while
// the store is serving reads.
func (s *BoltStore) Snapshot(w io.Writer) (int64, error) {
	var n int64
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		n, err = tx.WriteTo(w)
		return err
	})
	return n, err
}

// Path returns the database file path.
func (s *BoltStore) Path() string {
	return s.db.Path()
}

// Close closes the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Ensure BoltStore implements Store.
var _ Store = (*BoltStore)(nil)
