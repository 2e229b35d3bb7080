package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorageMissingAndEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir, DefaultKey)
	if err != nil {
		t.Fatalf("new file storage: %v", err)
	}
	if _, err := s.Load(t.Context()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing file, got %v", err)
	}
	if err := os.WriteFile(s.Path(), []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := s.Load(t.Context()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty file, got %v", err)
	}
}

func TestFileStorageSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := NewFileStorage(dir, DefaultKey)
	if err != nil {
		t.Fatalf("new file storage: %v", err)
	}
	want := sampleState(t)
	if err := s.Save(t.Context(), NewRecord(want)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(s.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away, stat err=%v", err)
	}
	if filepath.Base(s.Path()) != "todo-storage.json" {
		t.Fatalf("unexpected path: %s", s.Path())
	}

	reopened, err := NewFileStorage(dir, DefaultKey)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Load(t.Context())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertSameState(t, got.State, want)
}

func TestFileStorageCorrupt(t *testing.T) {
	s, err := NewFileStorage(t.TempDir(), DefaultKey)
	if err != nil {
		t.Fatalf("new file storage: %v", err)
	}
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := s.Load(t.Context()); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestFileStorageRejectsBadKeys(t *testing.T) {
	for _, key := range []string{"", "  ", "a/b", `a\b`} {
		if _, err := NewFileStorage(t.TempDir(), key); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}
