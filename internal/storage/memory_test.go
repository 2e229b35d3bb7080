package storage

import (
	"errors"
	"testing"
)

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage()
	ctx := t.Context()
	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	want := sampleState(t)
	if err := s.Save(ctx, NewRecord(want)); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertSameState(t, got.State, want)
	if s.Saves() != 1 {
		t.Fatalf("saves = %d", s.Saves())
	}

	boom := errors.New("quota exceeded")
	s.FailSave = boom
	if err := s.Save(ctx, NewRecord(want)); !errors.Is(err, boom) {
		t.Fatalf("expected injected save error, got %v", err)
	}
	s.FailLoad = boom
	if _, err := s.Load(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected injected load error, got %v", err)
	}

	s.FailLoad = nil
	s.SetRaw([]byte("garbage"))
	if _, err := s.Load(ctx); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}
