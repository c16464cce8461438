package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/inovacc/wavelink/internal/config"
)

var (
	// ErrNotFound is returned by Blob.Get for an absent key.
	ErrNotFound = errors.New("key not found")

	// ErrDecode marks a stored value that is not a valid roster.
	ErrDecode = errors.New("failed to decode roster")
)

// Blob is a key-value store of opaque values.
type Blob interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Open creates the backend selected by cfg.Store.Backend.
func Open(ctx context.Context, cfg *config.Config) (Blob, error) {
	switch cfg.Store.Backend {
	case config.BackendBolt, "":
		return NewBolt(cfg.Store.Path)
	case config.BackendSQLite:
		return NewSQLite(cfg.Store.Path)
	case config.BackendPostgres:
		return NewPostgres(ctx, cfg.Store.DSN)
	case config.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}
}
