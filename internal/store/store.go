// Package store owns the todo collection and the active filter. Every
// successful mutation persists the whole state and then notifies
// subscribers in registration order. Snapshots reach listeners in commit
// order even when several goroutines mutate.
package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/taskmaster/internal/model"
	"github.com/sandeepkv93/taskmaster/internal/stats"
	"github.com/sandeepkv93/taskmaster/internal/storage"
	"go.uber.org/zap"
)

var (
	ErrEmptyText       = model.ErrEmptyText
	ErrInvalidPriority = model.ErrInvalidPriority
	ErrInvalidCategory = model.ErrInvalidCategory
	ErrInvalidFilter   = model.ErrInvalidFilter
	ErrClosed          = errors.New("store: closed")
)

type Listener func(model.State)

type Store struct {
	mu      sync.Mutex
	state   model.State
	storage storage.Storage
	closed  bool
	lastErr error

	pending    []model.State
	delivering bool

	now    func() time.Time
	newID  func() string
	random model.RandomSource
	logger *zap.Logger

	subMu     sync.Mutex
	listeners []subscription
	nextSubID int
}

type subscription struct {
	id int
	fn Listener
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func WithRandomSource(src model.RandomSource) Option {
	return func(s *Store) {
		if src != nil {
			s.random = src
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New loads the persisted state from st. A missing or unreadable record
// yields an empty collection with filter all; New never fails on that.
func New(ctx context.Context, st storage.Storage, opts ...Option) *Store {
	s := &Store{
		state:   model.EmptyState(),
		storage: st,
		now:     time.Now,
		newID:   uuid.NewString,
		random:  rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	if s.storage == nil {
		return
	}
	rec, err := s.storage.Load(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Info("no persisted state, starting empty")
		} else {
			s.logger.Warn("failed to load persisted state, starting empty", zap.Error(err))
		}
		return
	}

	todos := make([]model.Todo, 0, len(rec.State.Todos))
	seen := make(map[string]bool, len(rec.State.Todos))
	for _, t := range rec.State.Todos {
		if repairCompletion(&t) {
			s.logger.Warn("repaired completion stamp of persisted todo", zap.String("id", t.ID), zap.Bool("completed", t.Completed))
		}
		if err := t.Validate(); err != nil {
			s.logger.Warn("dropping invalid persisted todo", zap.String("id", t.ID), zap.Error(err))
			continue
		}
		if seen[t.ID] {
			s.logger.Warn("dropping duplicate persisted todo", zap.String("id", t.ID))
			continue
		}
		seen[t.ID] = true
		todos = append(todos, t)
	}
	s.state = model.State{Todos: todos, Filter: rec.State.Filter}
	s.logger.Info("loaded persisted state",
		zap.Int("todos", len(todos)),
		zap.String("filter", string(s.state.Filter)),
	)
}

func (s *Store) AddTodo(d model.Draft) (model.Todo, error) {
	text := strings.TrimSpace(d.Text)
	if text == "" {
		return model.Todo{}, ErrEmptyText
	}
	if !d.Priority.IsValid() {
		return model.Todo{}, fmt.Errorf("%w: %q", ErrInvalidPriority, d.Priority)
	}
	if !d.Category.IsValid() {
		return model.Todo{}, fmt.Errorf("%w: %q", ErrInvalidCategory, d.Category)
	}

	s.mu.Lock()
	todo := model.Todo{
		ID:        s.uniqueIDLocked(),
		Text:      text,
		CreatedAt: s.now(),
		Color:     model.PickColor(s.random),
		Priority:  d.Priority,
		Category:  d.Category,
		Notes:     d.Notes,
	}
	if d.DueDate != nil {
		due := *d.DueDate
		todo.DueDate = &due
	}
	if len(d.Tags) > 0 {
		todo.Tags = cleanTags(d.Tags)
	}
	todos := make([]model.Todo, 0, len(s.state.Todos)+1)
	todos = append(todos, todo)
	todos = append(todos, s.state.Todos...)
	s.state.Todos = todos
	s.commitLocked("add")
	s.unlockAndNotify()
	return todo.Clone(), nil
}

func (s *Store) ToggleTodo(id string) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	t := &s.state.Todos[idx]
	if t.Completed {
		t.Completed = false
		t.CompletedAt = nil
	} else {
		now := s.now()
		t.Completed = true
		t.CompletedAt = &now
	}
	s.commitLocked("toggle")
	s.unlockAndNotify()
	return true
}

func (s *Store) DeleteTodo(id string) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.state.Todos = slices.Delete(s.state.Todos, idx, idx+1)
	s.commitLocked("delete")
	s.unlockAndNotify()
	return true
}

// EditTodo merges the set fields of p into the todo. When p.Completed is
// set, CompletedAt is re-derived: a transition to completed stamps now, a
// todo that stays completed keeps its stamp, and active clears it.
// It reports false, nil when id is unknown.
func (s *Store) EditTodo(id string, p model.Patch) (bool, error) {
	var text string
	if p.Text != nil {
		text = strings.TrimSpace(*p.Text)
		if text == "" {
			return false, ErrEmptyText
		}
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidPriority, *p.Priority)
	}
	if p.Category != nil && !p.Category.IsValid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidCategory, *p.Category)
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	if p.IsEmpty() {
		s.mu.Unlock()
		return true, nil
	}

	t := &s.state.Todos[idx]
	if p.Text != nil {
		t.Text = text
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.Tags != nil {
		t.Tags = cleanTags(*p.Tags)
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.Completed != nil {
		switch {
		case !*p.Completed:
			t.Completed = false
			t.CompletedAt = nil
		case !t.Completed || t.CompletedAt == nil:
			now := s.now()
			t.Completed = true
			t.CompletedAt = &now
		}
	}
	s.commitLocked("edit")
	s.unlockAndNotify()
	return true, nil
}

func (s *Store) SetFilter(f model.Filter) error {
	if !f.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFilter, f)
	}
	s.mu.Lock()
	s.state.Filter = f
	s.commitLocked("set_filter")
	s.unlockAndNotify()
	return nil
}

func (s *Store) Todos() []model.Todo {
	return s.Snapshot().Todos
}

func (s *Store) Filter() model.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Filter
}

func (s *Store) Snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) Get(id string) (model.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Todo{}, false
	}
	return s.state.Todos[idx].Clone(), true
}

func (s *Store) Stats() stats.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stats.Compute(s.state.Todos, s.now())
}

func (s *Store) LastPersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe registers fn for post-mutation notifications. The returned
// function unregisters it and is safe to call more than once.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool { return sub.id == id })
		})
	}
}

func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.persistLocked(ctx, "flush")
}

// Close flushes and releases the storage. Later calls return ErrClosed.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	flushErr := s.persistLocked(ctx, "close")
	s.closed = true
	if s.storage == nil {
		return flushErr
	}
	return errors.Join(flushErr, s.storage.Close())
}

func (s *Store) commitLocked(op string) {
	if !s.closed {
		_ = s.persistLocked(context.Background(), op)
	}
	s.pending = append(s.pending, s.state.Clone())
}

// unlockAndNotify releases mu and delivers queued snapshots in commit
// order. Only one goroutine delivers at a time; a mutation made while
// another goroutine (or a listener) is delivering is queued behind it.
func (s *Store) unlockAndNotify() {
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	s.mu.Unlock()

	finished := false
	defer func() {
		if !finished {
			s.mu.Lock()
			s.delivering = false
			s.pending = nil
			s.mu.Unlock()
		}
	}()
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.delivering = false
			finished = true
			s.mu.Unlock()
			return
		}
		snap := s.pending[0]
		s.pending[0] = model.State{}
		s.pending = s.pending[1:]
		s.mu.Unlock()
		s.notify(snap)
	}
}

func (s *Store) persistLocked(ctx context.Context, op string) error {
	if s.storage == nil {
		return nil
	}
	err := s.storage.Save(ctx, storage.NewRecord(s.state))
	s.lastErr = err
	if err != nil {
		s.logger.Error("failed to persist state",
			zap.String("op", op),
			zap.Int("todos", len(s.state.Todos)),
			zap.Error(err),
		)
		return err
	}
	s.logger.Debug("persisted state", zap.String("op", op), zap.Int("todos", len(s.state.Todos)))
	return nil
}

func (s *Store) notify(snap model.State) {
	s.subMu.Lock()
	listeners := slices.Clone(s.listeners)
	s.subMu.Unlock()
	for _, sub := range listeners {
		sub.fn(snap.Clone())
	}
}

// repairCompletion restores the completed/completedAt pairing. A completed
// todo without a stamp is stamped with its creation time; an active todo
// loses a stray stamp.
func repairCompletion(t *model.Todo) bool {
	switch {
	case t.Completed && t.CompletedAt == nil:
		stamp := t.CreatedAt
		t.CompletedAt = &stamp
		return true
	case !t.Completed && t.CompletedAt != nil:
		t.CompletedAt = nil
		return true
	}
	return false
}

func (s *Store) indexLocked(id string) int {
	for i := range s.state.Todos {
		if s.state.Todos[i].ID == id {
			return i
		}
	}
	return -1
}

const maxIDAttempts = 8

func (s *Store) uniqueIDLocked() string {
	for range maxIDAttempts {
		id := s.newID()
		if strings.TrimSpace(id) != "" && s.indexLocked(id) < 0 {
			return id
		}
	}
	s.logger.Warn("id generator kept colliding, falling back to uuid")
	for {
		id := uuid.NewString()
		if s.indexLocked(id) < 0 {
			return id
		}
	}
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
