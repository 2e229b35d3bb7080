package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindFile, KindSQLite, KindMemory:
		return true
	default:
		return false
	}
}

type Options struct {
	Kind Kind
	Dir  string
	Key  string
}

func Open(opts Options) (Storage, error) {
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}
	switch opts.Kind {
	case KindFile, "":
		return NewFileStorage(opts.Dir, key)
	case KindSQLite:
		if opts.Dir != "" {
			if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
				return nil, err
			}
		}
		return OpenSQLite(filepath.Join(opts.Dir, "taskmaster.db"), key)
	case KindMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("storage: unknown kind %q", opts.Kind)
	}
}
