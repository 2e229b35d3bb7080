package storage

import (
	"context"
	"sync"
)

// MemoryStorage keeps the encoded record in process memory. Encoding on
// every save keeps it honest about what the file and SQLite backends see.
type MemoryStorage struct {
	mu    sync.Mutex
	raw   []byte
	saves int

	// FailLoad and FailSave, when set, are returned instead of doing the work.
	FailLoad error
	FailSave error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Load(ctx context.Context) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailLoad != nil {
		return Record{}, s.FailLoad
	}
	if s.raw == nil {
		return Record{}, ErrNotFound
	}
	return DecodeRecord(s.raw)
}

func (s *MemoryStorage) Save(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSave != nil {
		return s.FailSave
	}
	raw, err := EncodeRecord(rec)
	if err != nil {
		return err
	}
	s.raw = raw
	s.saves++
	return nil
}

func (s *MemoryStorage) SetRaw(raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = raw
}

func (s *MemoryStorage) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *MemoryStorage) Close() error {
	return nil
}
