package storage

import (
	"encoding/json"
	"fmt"

	"github.com/sandeepkv93/taskmaster/internal/model"
)

const (
	DefaultKey = "todo-storage"
	// CurrentVersion is the record schema version written by Save.
	CurrentVersion = 0
)

// Record is the persisted envelope: {"state": {...}, "version": 0}.
type Record struct {
	State   model.State `json:"state"`
	Version int         `json:"version"`
}

func NewRecord(state model.State) Record {
	if state.Todos == nil {
		state.Todos = []model.Todo{}
	}
	return Record{State: state, Version: CurrentVersion}
}

func EncodeRecord(rec Record) ([]byte, error) {
	if rec.State.Todos == nil {
		rec.State.Todos = []model.Todo{}
	}
	return json.MarshalIndent(rec, "", "  ")
}

func DecodeRecord(raw []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if rec.Version > CurrentVersion {
		return Record{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, rec.Version)
	}
	if rec.State.Filter == "" {
		rec.State.Filter = model.FilterAll
	}
	if !rec.State.Filter.IsValid() {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupt, model.ErrInvalidFilter)
	}
	if rec.State.Todos == nil {
		rec.State.Todos = []model.Todo{}
	}
	return rec, nil
}
