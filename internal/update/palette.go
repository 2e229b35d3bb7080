package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskmaster/internal/commands"
	"github.com/sandeepkv93/taskmaster/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.Mode = ModeNormal
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case tea.KeyEnter:
		input := m.commandInput.Value()
		m.Mode = ModeNormal
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		return m.runCommand(input), nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m Model) runCommand(raw string) Model {
	cmd, err := m.parser.Parse(strings.TrimSpace(raw))
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	if m.store == nil {
		m.Status = StatusBar{Text: "no store attached", IsError: true}
		return m
	}

	res, err := commands.Execute(cmd, m.handlers())
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: res.Message}
	m.refresh()
	return m
}

func (m *Model) handlers() commands.Handlers {
	st := m.store
	resolve := func(target string) (string, error) {
		return commands.ResolveTarget(target, m.SelectedID, st.Todos())
	}
	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			todo, err := st.AddTodo(a.Draft)
			if err != nil {
				return commands.Result{}, invalidArgument(err)
			}
			m.SelectedID = todo.ID
			return commands.Result{Message: fmt.Sprintf("added: %s", todo.Text)}, nil
		},
		Toggle: func(a commands.TargetArgs) (commands.Result, error) {
			id, err := resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			st.ToggleTodo(id)
			todo, _ := st.Get(id)
			state := "active"
			if todo.Completed {
				state = "completed"
			}
			return commands.Result{Message: fmt.Sprintf("marked %s: %s", state, todo.Text)}, nil
		},
		Delete: func(a commands.TargetArgs) (commands.Result, error) {
			id, err := resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			st.DeleteTodo(id)
			return commands.Result{Message: "todo deleted"}, nil
		},
		Edit: func(a commands.EditArgs) (commands.Result, error) {
			id, err := resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := st.EditTodo(id, a.Patch); err != nil {
				return commands.Result{}, invalidArgument(err)
			}
			return commands.Result{Message: "todo updated"}, nil
		},
		Note: func(a commands.NoteArgs) (commands.Result, error) {
			id, err := resolve(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			notes := a.Notes
			if _, err := st.EditTodo(id, model.Patch{Notes: &notes}); err != nil {
				return commands.Result{}, invalidArgument(err)
			}
			if notes == "" {
				return commands.Result{Message: "notes cleared"}, nil
			}
			return commands.Result{Message: "notes saved"}, nil
		},
		Filter: func(a commands.FilterArgs) (commands.Result, error) {
			if err := st.SetFilter(a.Filter); err != nil {
				return commands.Result{}, invalidArgument(err)
			}
			return commands.Result{Message: fmt.Sprintf("filter: %s", a.Filter)}, nil
		},
		Stats: func() (commands.Result, error) {
			s := st.Stats()
			return commands.Result{Message: fmt.Sprintf("%d total, %d completed, %d active, %.1f%% done, %d today",
				s.Total, s.Completed, s.Active, s.CompletionRate, s.TodayCompleted)}, nil
		},
	}
}

func invalidArgument(err error) error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
}
