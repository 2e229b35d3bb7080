package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound           = errors.New("storage: not found")
	ErrCorrupt            = errors.New("storage: corrupt record")
	ErrUnsupportedVersion = errors.New("storage: unsupported record version")
)

// Storage holds one named record with the whole store state.
type Storage interface {
	// Load returns ErrNotFound when nothing has been saved yet.
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Close() error
}
