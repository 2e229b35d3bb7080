package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskmaster/internal/model"
	"github.com/sandeepkv93/taskmaster/internal/reminder"
	"github.com/sandeepkv93/taskmaster/internal/stats"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForStateCmd(m.feed)}
	if m.reminders != nil {
		m.syncReminders()
		cmds = append(cmds, waitForReminderCmd(m.reminders.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.Status
	next, cmd := m.update(msg)
	updated := next.(Model)
	if updated.Status != before && updated.Status.Text != "" {
		updated.statusSeq++
		cmd = tea.Batch(cmd, clearStatusCmd(updated.statusSeq, updated.statusTTL))
	}
	return updated, cmd
}

func clearStatusCmd(seq int, ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.helpModel.Width = typed.Width
		return m, nil
	case tea.KeyMsg:
		switch m.Mode {
		case ModeQuickAdd:
			return m.handleQuickAddKey(typed)
		case ModePalette:
			return m.handlePaletteKey(typed)
		}
		return m.handleNormalKey(typed)
	case StateChangedMsg:
		m.applyState(typed.State)
		m.checkPersisted()
		m.syncReminders()
		return m, waitForStateCmd(m.feed)
	case ReminderDueMsg:
		ev := typed.Event
		m.LastReminder = &ev
		m.Status = StatusBar{Text: fmt.Sprintf("due now: %s", ev.Text)}
		if m.reminders != nil {
			return m, waitForReminderCmd(m.reminders.C())
		}
		return m, nil
	case ClearStatusMsg:
		if typed.Seq == m.statusSeq {
			m.Status = StatusBar{}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.Keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.Keys.Toggle):
		if m.SelectedID == "" || m.store == nil {
			return m, nil
		}
		m.store.ToggleTodo(m.SelectedID)
		m.refresh()
	case key.Matches(msg, m.Keys.Delete):
		if m.SelectedID == "" || m.store == nil {
			return m, nil
		}
		if m.store.DeleteTodo(m.SelectedID) {
			m.Status = StatusBar{Text: "todo deleted"}
		}
		m.refresh()
	case key.Matches(msg, m.Keys.Filter):
		if m.store == nil {
			return m, nil
		}
		next := m.state.Filter.Next()
		if err := m.store.SetFilter(next); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("filter: %s", next)}
		m.refresh()
	case key.Matches(msg, m.Keys.Add):
		m.Mode = ModeQuickAdd
		m.quickAddInput.SetValue("")
		m.quickAddInput.Focus()
	case key.Matches(msg, m.Keys.Palette):
		m.Mode = ModePalette
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
	}
	return m, nil
}

func (m Model) handleQuickAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.Mode = ModeNormal
		m.quickAddInput.Blur()
		m.quickAddInput.SetValue("")
		return m, nil
	case tea.KeyEnter:
		input := m.quickAddInput.Value()
		m.Mode = ModeNormal
		m.quickAddInput.Blur()
		m.quickAddInput.SetValue("")
		return m.runCommand("add " + input), nil
	}
	var cmd tea.Cmd
	m.quickAddInput, cmd = m.quickAddInput.Update(msg)
	return m, cmd
}

// refresh pulls the latest snapshot so the view reflects a mutation made
// in this Update without waiting for the notification round trip.
func (m *Model) refresh() {
	if m.store == nil {
		return
	}
	m.applyState(m.store.Snapshot())
	m.checkPersisted()
}

func (m *Model) checkPersisted() {
	if m.store == nil {
		return
	}
	if err := m.store.LastPersistError(); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("changes not saved: %v", err), IsError: true}
	}
}

func (m *Model) applyState(s model.State) {
	m.state = s
	m.visible = model.Apply(s.Filter, s.Todos)
	m.stats = stats.Compute(s.Todos, m.now())
	_ = m.rateBar.SetPercent(m.stats.CompletionRate / 100)
	m.reconcileSelection()
}

func (m *Model) reconcileSelection() {
	if len(m.visible) == 0 {
		m.cursor = 0
		m.SelectedID = ""
		return
	}
	for i, t := range m.visible {
		if t.ID == m.SelectedID {
			m.cursor = i
			return
		}
	}
	m.cursor = min(max(m.cursor, 0), len(m.visible)-1)
	m.SelectedID = m.visible[m.cursor].ID
}

func (m *Model) moveCursor(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)
	m.SelectedID = m.visible[m.cursor].ID
}

func (m Model) selected() (model.Todo, bool) {
	for _, t := range m.state.Todos {
		if t.ID == m.SelectedID {
			return t, true
		}
	}
	return model.Todo{}, false
}

func (m Model) syncReminders() {
	if m.reminders == nil {
		return
	}
	// Reset only fails once the engine is stopped, which happens on exit.
	_ = m.reminders.Reset(reminder.EventsFor(m.state.Todos, m.now()))
}

func formatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
