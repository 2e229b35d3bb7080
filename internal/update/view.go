package update

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/taskmaster/internal/model"
	"github.com/sandeepkv93/taskmaster/internal/stats"
	"github.com/sandeepkv93/taskmaster/internal/views"
)

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	right := m.renderDetailPane()
	if m.HelpVisible {
		right = m.renderHelpView()
	}

	input := ""
	switch m.Mode {
	case ModeQuickAdd:
		input = views.RenderInput("quick add", m.quickAddInput.View())
	case ModePalette:
		input = views.RenderInput("command", m.commandInput.View())
	}

	notification := ""
	if m.LastReminder != nil {
		notification = views.RenderNotification("due", fmt.Sprintf("%s @ %s", m.LastReminder.Text, m.LastReminder.DueAt.Format("2006-01-02 15:04")))
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("taskmaster | filter: %s | %d shown of %d", m.state.Filter, len(m.visible), len(m.state.Todos)),
		StatsPane:    m.renderStatsPane(),
		LeftPane:     m.renderListPane(),
		RightPane:    right,
		Input:        input,
		StatusLine:   m.Status.Text,
		StatusError:  m.Status.IsError,
		Notification: notification,
		Footer:       m.helpModel.ShortHelpView(m.Keys.ShortHelp()),
		Width:        m.width,
	})
}

func (m Model) renderStatsPane() string {
	s := m.stats
	labels := stats.WeekLabels(m.now())
	data := views.StatsPanelData{
		Total:          s.Total,
		Completed:      s.Completed,
		Active:         s.Active,
		CompletionRate: s.CompletionRate,
		TodayCompleted: s.TodayCompleted,
		ProgressView:   m.rateBar.ViewAs(s.CompletionRate / 100),
		WeekLabels:     labels[:],
		WeeklyProgress: s.WeeklyProgress[:],
	}
	for _, p := range model.AllPriorities {
		data.ByPriority = append(data.ByPriority, views.CountData{Label: string(p), Count: s.ByPriority[p]})
	}
	for _, c := range model.AllCategories {
		data.ByCategory = append(data.ByCategory, views.CountData{Label: string(c), Count: s.ByCategory[c]})
	}
	return views.RenderStatsPanel(data)
}

func (m Model) renderListPane() string {
	now := m.now()
	items := make([]views.TodoItemData, 0, len(m.visible))
	for _, t := range m.visible {
		items = append(items, views.TodoItemData{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			Color:     string(t.Color),
			Priority:  string(t.Priority),
			Category:  string(t.Category),
			Due:       formatDay(t.DueDate),
			Overdue:   t.IsOverdue(now),
			Tags:      t.Tags,
		})
	}
	filters := make([]string, 0, len(model.AllFilters))
	for _, f := range model.AllFilters {
		filters = append(filters, string(f))
	}
	empty := "(no todos, press a to add one)"
	if len(m.state.Todos) > 0 {
		empty = fmt.Sprintf("(no %s todos)", m.state.Filter)
	}
	return views.RenderListPanel(views.ListPanelData{
		Filter:     string(m.state.Filter),
		Filters:    filters,
		Items:      items,
		SelectedID: m.SelectedID,
		EmptyText:  empty,
	})
}

func (m Model) renderDetailPane() string {
	t, ok := m.selected()
	if !ok {
		return views.RenderDetailPanel(views.DetailPanelData{})
	}
	data := views.DetailPanelData{
		ID:        t.ID,
		Text:      t.Text,
		Priority:  string(t.Priority),
		Category:  string(t.Category),
		Created:   t.CreatedAt.Format("2006-01-02 15:04"),
		Due:       formatDay(t.DueDate),
		Tags:      t.Tags,
		NotesView: m.notes.Render(t.Notes, views.PaneWidth(m.width)-4),
	}
	if t.CompletedAt != nil {
		data.CompletedAt = t.CompletedAt.Format("2006-01-02 15:04")
	}
	return views.RenderDetailPanel(data)
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, group := range m.Keys.FullHelp() {
		for _, b := range group {
			h := b.Help()
			plain = append(plain, fmt.Sprintf("- %s: %s", h.Key, h.Desc))
		}
	}
	plain = append(plain,
		"",
		"commands:",
		"- add <text> [!prio] [@cat] [due:YYYY-MM-DD] [#tag]",
		"- toggle|delete <selected|id>",
		"- edit <selected|id> [text] [!prio] [@cat] [due:...|due:none] [#tag]",
		"- note <selected|id> <markdown>",
		"- filter all|active|completed",
		"- stats",
	)
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: strings.TrimSpace(m.helpModel.FullHelpView(m.Keys.FullHelp())),
	})
}
