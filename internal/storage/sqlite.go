package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

// SQLiteStorage keeps the record as one row of the local_storage table,
// keyed by name, so several stores can share a database file.
type SQLiteStorage struct {
	db  *sql.DB
	key string
	now func() time.Time
}

func NewSQLiteStorage(db *sql.DB, key string) (*SQLiteStorage, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("storage: empty key")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteStorage{db: db, key: key, now: time.Now}, nil
}

func OpenSQLite(path, key string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	s, err := NewSQLiteStorage(db, key)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) Load(ctx context.Context) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = ?`, s.key)
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	if strings.TrimSpace(value) == "" {
		return Record{}, ErrNotFound
	}
	return DecodeRecord([]byte(value))
}

func (s *SQLiteStorage) Save(ctx context.Context, rec Record) error {
	payload, err := EncodeRecord(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, string(payload), mustTime(s.now()),
	)
	return err
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}
