package reminder

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/taskmaster/internal/model"
)

func TestEngineEmitsInDueOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(DueEvent{TodoID: "later", DueAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(DueEvent{TodoID: "sooner", DueAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.TodoID != "sooner" || second.TodoID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.TodoID, second.TodoID)
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	at := time.Now().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(DueEvent{TodoID: "evt", DueAt: at}); err != nil {
			t.Fatalf("schedule event: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidatesDueTime(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(DueEvent{TodoID: "bad"}); !errors.Is(err, ErrInvalidDueTime) {
		t.Fatalf("expected ErrInvalidDueTime, got %v", err)
	}
}

func TestResetReplacesPendingEvents(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(DueEvent{TodoID: "stale", DueAt: now.Add(40 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := engine.Reset([]DueEvent{
		{TodoID: "fresh", DueAt: now.Add(60 * time.Millisecond)},
		{TodoID: "zero"},
	}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if engine.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", engine.Pending())
	}

	ev := waitEvent(t, engine.C(), time.Second)
	if ev.TodoID != "fresh" {
		t.Fatalf("expected fresh event, got %s", ev.TodoID)
	}
	select {
	case extra := <-engine.C():
		t.Fatalf("unexpected extra event: %+v", extra)
	case <-time.After(80 * time.Millisecond):
	}
}

func TestStoppedEngineRejectsWork(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()
	engine.Stop()

	if err := engine.Schedule(DueEvent{TodoID: "x", DueAt: time.Now()}); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if err := engine.Reset(nil); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if _, ok := <-engine.C(); ok {
		t.Fatal("expected closed channel after stop")
	}
}

func TestEventsForSkipsCompletedPastAndUndated(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)
	stamp := now

	todos := []model.Todo{
		{ID: "due", Text: "pay rent", DueDate: &future},
		{ID: "past", Text: "late", DueDate: &past},
		{ID: "exact", Text: "now", DueDate: &stamp},
		{ID: "done", Text: "done", DueDate: &future, Completed: true, CompletedAt: &stamp},
		{ID: "undated", Text: "someday"},
	}
	got := EventsFor(todos, now)
	if len(got) != 1 {
		t.Fatalf("expected one event, got %+v", got)
	}
	if got[0].TodoID != "due" || got[0].Text != "pay rent" || !got[0].DueAt.Equal(future) {
		t.Fatalf("unexpected event: %+v", got[0])
	}
}

func waitEvent(t *testing.T, ch <-chan DueEvent, timeout time.Duration) DueEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return DueEvent{}
	}
}
