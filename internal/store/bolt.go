package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const boltBucketRoster = "roster" // key: slot -> roster JSON

// Bolt is a Blob backed by a BoltDB file.
type Bolt struct {
	db *bbolt.DB
}

// NewBolt opens or creates the database at path.
func NewBolt(path string) (*Bolt, error) {
	if path == "" {
		return nil, errors.New("bolt path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketRoster))
		return err
	}); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Bolt{db: db}, nil
}

func (b *Bolt) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte

	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(boltBucketRoster)).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}

		// v is only valid for the life of the transaction
		value = append([]byte(nil), v...)

		return nil
	})

	return value, err
}

func (b *Bolt) Put(_ context.Context, key string, value []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketRoster)).Put([]byte(key), value)
	})
}

func (b *Bolt) Delete(_ context.Context, key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketRoster)).Delete([]byte(key))
	})
}

func (b *Bolt) Ping(_ context.Context) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		return nil
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
