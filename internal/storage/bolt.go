package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// boltBucket holds every key; the value set is tiny so one bucket is enough.
var boltBucket = []byte("kv")

// BoltStore persists keys in a bbolt file.
// The file is opened per operation so several promptforge processes can
// share it; bbolt's file lock serialises them.
type BoltStore struct {
	path    string
	timeout time.Duration
}

// NewBoltStore creates a store backed by the file at path.
// The parent directory is created on first write.
func NewBoltStore(path string) *BoltStore {
	return &BoltStore{path: path, timeout: 2 * time.Second}
}

// Path returns the database file path.
func (s *BoltStore) Path() string {
	return s.path
}

func (s *BoltStore) open(readOnly bool) (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	db, err := bolt.Open(s.path, 0o600, &bolt.Options{Timeout: s.timeout, ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	return db, nil
}

// Get returns the value for key.
func (s *BoltStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return "", false, nil
	}

	db, err := s.open(true)
	if err != nil {
		return "", false, err
	}
	defer func() { _ = db.Close() }()

	var (
		value string
		found bool
	)
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltBucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			value = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return value, found, nil
}

// Set stores value under key.
func (s *BoltStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db, err := s.open(false)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(boltBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
}

// Delete removes key.
func (s *BoltStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil
	}
	db, err := s.open(false)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltBucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// Close is a no-op; the file is only held open during an operation.
func (s *BoltStore) Close() error {
	return nil
}

var _ Store = (*BoltStore)(nil)
