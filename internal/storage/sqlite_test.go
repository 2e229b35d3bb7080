package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/taskmaster/internal/model"
)

func setupSQLite(t *testing.T, key string) (*sql.DB, *SQLiteStorage) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "taskmaster-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	s, err := NewSQLiteStorage(db, key)
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	return db, s
}

func TestSQLiteStorageSaveLoadUpsert(t *testing.T) {
	db, s := setupSQLite(t, DefaultKey)
	ctx := t.Context()
	s.now = func() time.Time { return parseRFC3339(t, "2026-02-09T12:00:00Z") }

	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first save, got %v", err)
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

	s.now = func() time.Time { return parseRFC3339(t, "2026-02-09T13:00:00Z") }
	want.Filter = model.FilterActive
	want.Todos = want.Todos[1:]
	if err := s.Save(ctx, NewRecord(want)); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	assertSameState(t, got.State, want)

	var rows int
	var updated string
	if err := db.QueryRow(`SELECT COUNT(*), MAX(updated_at) FROM local_storage`).Scan(&rows, &updated); err != nil {
		t.Fatalf("query: %v", err)
	}
	if rows != 1 || updated != "2026-02-09T13:00:00Z" {
		t.Fatalf("expected one upserted row stamped 13:00, got %d rows at %s", rows, updated)
	}
}

func TestSQLiteStorageKeysAreIsolated(t *testing.T) {
	db, first := setupSQLite(t, "first")
	second, err := NewSQLiteStorage(db, "second")
	if err != nil {
		t.Fatalf("second storage: %v", err)
	}
	ctx := t.Context()

	if err := first.Save(ctx, NewRecord(sampleState(t))); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if _, err := second.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected second key to be empty, got %v", err)
	}
	if err := second.Save(ctx, NewRecord(model.EmptyState())); err != nil {
		t.Fatalf("save second: %v", err)
	}

	got, err := first.Load(ctx)
	if err != nil {
		t.Fatalf("first record should survive: %v", err)
	}
	assertSameState(t, got.State, sampleState(t))
}

func TestSQLiteStorageCorruptValue(t *testing.T) {
	db, s := setupSQLite(t, DefaultKey)
	if _, err := db.Exec(`INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)`,
		DefaultKey, "{broken", "2026-02-09T12:00:00Z"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.Load(t.Context()); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		kind Kind
		want string
	}{
		{KindFile, "*storage.FileStorage"},
		{KindSQLite, "*storage.SQLiteStorage"},
		{KindMemory, "*storage.MemoryStorage"},
	}
	for _, tc := range cases {
		s, err := Open(Options{Kind: tc.kind, Dir: dir})
		if err != nil {
			t.Fatalf("open %s: %v", tc.kind, err)
		}
		if got := typeName(s); got != tc.want {
			t.Fatalf("open %s returned %s", tc.kind, got)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("close %s: %v", tc.kind, err)
		}
	}
	if _, err := Open(Options{Kind: Kind("redis")}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func typeName(s Storage) string {
	switch s.(type) {
	case *FileStorage:
		return "*storage.FileStorage"
	case *SQLiteStorage:
		return "*storage.SQLiteStorage"
	case *MemoryStorage:
		return "*storage.MemoryStorage"
	default:
		return "unknown"
	}
}
