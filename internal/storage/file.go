package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type FileStorage struct {
	path string
}

func NewFileStorage(dir, key string) (*FileStorage, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("storage: empty key")
	}
	if strings.ContainsAny(key, `/\`) {
		return nil, fmt.Errorf("storage: invalid key %q", key)
	}
	return &FileStorage{path: filepath.Join(dir, key+".json")}, nil
}

func (s *FileStorage) Path() string {
	return s.path
}

func (s *FileStorage) Load(ctx context.Context) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return Record{}, ErrNotFound
	}
	return DecodeRecord(raw)
}

func (s *FileStorage) Save(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := EncodeRecord(rec)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStorage) Close() error {
	return nil
}
