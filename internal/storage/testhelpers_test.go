package storage

import (
	"testing"
	"time"

	"github.com/sandeepkv93/taskmaster/internal/model"
)

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func sampleState(t *testing.T) model.State {
	t.Helper()
	created := parseRFC3339(t, "2026-02-09T12:00:00.123456789+05:30")
	completed := parseRFC3339(t, "2026-02-09T18:45:10.5Z")
	due := parseRFC3339(t, "2026-02-12T09:00:00-08:00")
	return model.State{
		Filter: model.FilterCompleted,
		Todos: []model.Todo{
			{
				ID:          "todo-2",
				Text:        "Buy oat milk",
				Completed:   true,
				CreatedAt:   created,
				CompletedAt: &completed,
				Color:       model.Palette[4],
				Priority:    model.PriorityLow,
				Category:    model.CategoryShopping,
				Notes:       "the *barista* one",
				Tags:        []string{"errand", "weekly"},
			},
			{
				ID:        "todo-1",
				Text:      "Write quarterly report",
				CreatedAt: created.Add(-time.Hour),
				Color:     model.Palette[0],
				Priority:  model.PriorityHigh,
				Category:  model.CategoryWork,
				DueDate:   &due,
			},
		},
	}
}

func assertSameState(t *testing.T, got, want model.State) {
	t.Helper()
	if got.Filter != want.Filter {
		t.Fatalf("filter = %q, want %q", got.Filter, want.Filter)
	}
	if len(got.Todos) != len(want.Todos) {
		t.Fatalf("got %d todos, want %d", len(got.Todos), len(want.Todos))
	}
	for i := range want.Todos {
		g, w := got.Todos[i], want.Todos[i]
		if g.ID != w.ID || g.Text != w.Text || g.Completed != w.Completed || g.Color != w.Color ||
			g.Priority != w.Priority || g.Category != w.Category || g.Notes != w.Notes {
			t.Fatalf("todo %d mismatch:\n got  %#v\n want %#v", i, g, w)
		}
		if !g.CreatedAt.Equal(w.CreatedAt) {
			t.Fatalf("todo %d createdAt = %s, want %s", i, g.CreatedAt, w.CreatedAt)
		}
		assertSameInstant(t, "completedAt", g.CompletedAt, w.CompletedAt)
		assertSameInstant(t, "dueDate", g.DueDate, w.DueDate)
		if len(g.Tags) != len(w.Tags) {
			t.Fatalf("todo %d tags = %v, want %v", i, g.Tags, w.Tags)
		}
		for j := range w.Tags {
			if g.Tags[j] != w.Tags[j] {
				t.Fatalf("todo %d tags = %v, want %v", i, g.Tags, w.Tags)
			}
		}
	}
}

func assertSameInstant(t *testing.T, name string, got, want *time.Time) {
	t.Helper()
	if (got == nil) != (want == nil) {
		t.Fatalf("%s presence mismatch: got %v, want %v", name, got, want)
	}
	if got != nil && !got.Equal(*want) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}
