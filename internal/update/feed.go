package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskmaster/internal/model"
	"github.com/sandeepkv93/taskmaster/internal/reminder"
	"github.com/sandeepkv93/taskmaster/internal/store"
)

// stateFeed bridges store notifications into the bubbletea loop. Only the
// latest state is kept; older undelivered states are replaced.
type stateFeed struct {
	ch          chan model.State
	unsubscribe func()
}

func subscribe(st *store.Store) *stateFeed {
	f := &stateFeed{ch: make(chan model.State, 1)}
	f.unsubscribe = st.Subscribe(f.push)
	return f
}

func (f *stateFeed) push(s model.State) {
	for {
		select {
		case f.ch <- s:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

func (f *stateFeed) close() {
	f.unsubscribe()
}

func waitForStateCmd(f *stateFeed) tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		return StateChangedMsg{State: <-f.ch}
	}
}

func waitForReminderCmd(ch <-chan reminder.DueEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}
