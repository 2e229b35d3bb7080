package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type StatsPanelData struct {
	Total          int
	Completed      int
	Active         int
	CompletionRate float64
	TodayCompleted int
	ProgressView   string
	WeekLabels     []string
	WeeklyProgress []int
	ByPriority     []CountData
	ByCategory     []CountData
}

type CountData struct {
	Label string
	Count int
}

type TodoItemData struct {
	ID        string
	Text      string
	Completed bool
	Color     string
	Priority  string
	Category  string
	Due       string
	Overdue   bool
	Tags      []string
}

type ListPanelData struct {
	Filter     string
	Filters    []string
	Items      []TodoItemData
	SelectedID string
	EmptyText  string
}

type DetailPanelData struct {
	ID          string
	Text        string
	Priority    string
	Category    string
	Created     string
	CompletedAt string
	Due         string
	Tags        []string
	NotesView   string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

const chartHeight = 5

var (
	activeTabStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	overdueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	priorityStyles = map[string]lipgloss.Style{
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

func RenderStatsPanel(data StatsPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("total: %d | completed: %d | active: %d | today: %d\n",
		data.Total, data.Completed, data.Active, data.TodayCompleted))
	b.WriteString(fmt.Sprintf("completion: %s %.0f%%\n", data.ProgressView, data.CompletionRate))

	chart := RenderWeeklyChart(data.WeekLabels, data.WeeklyProgress)
	breakdown := renderCounts("priority", data.ByPriority) + "\n\n" + renderCounts("category", data.ByCategory)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, chart, "    ", breakdown))
	return strings.TrimSpace(b.String())
}

// RenderWeeklyChart draws one vertical bar per day, scaled to the busiest
// day. Labels and values are paired by index.
func RenderWeeklyChart(labels []string, values []int) string {
	peak := 0
	for _, v := range values {
		peak = max(peak, v)
	}
	var b strings.Builder
	b.WriteString("last 7 days:\n")
	for row := chartHeight; row >= 1; row-- {
		for _, v := range values {
			cell := "   "
			if peak > 0 && v*chartHeight >= row*peak {
				cell = " █ "
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}
	for _, v := range values {
		b.WriteString(fmt.Sprintf("%3d", v))
	}
	b.WriteString("\n")
	for _, l := range labels {
		if len(l) > 2 {
			l = l[:2]
		}
		b.WriteString(fmt.Sprintf("%3s", l))
	}
	return b.String()
}

func renderCounts(title string, counts []CountData) string {
	var b strings.Builder
	b.WriteString(title + ":")
	for _, c := range counts {
		b.WriteString(fmt.Sprintf("\n  %-9s %d", c.Label, c.Count))
	}
	return b.String()
}

func RenderFilterTabs(filters []string, current string) string {
	tabs := make([]string, 0, len(filters))
	for _, f := range filters {
		if f == current {
			tabs = append(tabs, activeTabStyle.Render("["+f+"]"))
			continue
		}
		tabs = append(tabs, " "+f+" ")
	}
	return strings.Join(tabs, " ")
}

func RenderListPanel(data ListPanelData) string {
	var b strings.Builder
	b.WriteString(RenderFilterTabs(data.Filters, data.Filter) + "\n\n")
	if len(data.Items) == 0 {
		empty := data.EmptyText
		if empty == "" {
			empty = "(no todos)"
		}
		b.WriteString(mutedStyle.Render(empty))
		return b.String()
	}
	for _, item := range data.Items {
		cursor := " "
		if item.ID == data.SelectedID {
			cursor = ">"
		}
		b.WriteString(cursor + " " + renderTodoLine(item) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTodoLine(item TodoItemData) string {
	check := "[ ]"
	if item.Completed {
		check = "[x]"
	}
	swatch := "  "
	if item.Color != "" {
		swatch = lipgloss.NewStyle().Background(lipgloss.Color(item.Color)).Render("  ")
	}
	text := item.Text
	if item.Completed {
		text = doneStyle.Render(text)
	}
	prio := item.Priority
	if style, ok := priorityStyles[item.Priority]; ok {
		prio = style.Render(item.Priority)
	}
	line := fmt.Sprintf("%s %s %s (%s, %s)", swatch, check, text, prio, item.Category)
	if item.Due != "" {
		due := "due:" + item.Due
		if item.Overdue {
			due = overdueStyle.Render(due + " overdue")
		}
		line += " " + due
	}
	for _, tag := range item.Tags {
		line += " #" + tag
	}
	return line
}

func RenderDetailPanel(data DetailPanelData) string {
	if strings.TrimSpace(data.ID) == "" {
		return "details:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("details:\n")
	b.WriteString(fmt.Sprintf("id: %s\n", data.ID))
	b.WriteString(fmt.Sprintf("text: %s\n", data.Text))
	b.WriteString(fmt.Sprintf("priority: %s | category: %s\n", data.Priority, data.Category))
	b.WriteString(fmt.Sprintf("created: %s\n", data.Created))
	if data.CompletedAt != "" {
		b.WriteString(fmt.Sprintf("completed: %s\n", data.CompletedAt))
	}
	if data.Due != "" {
		b.WriteString(fmt.Sprintf("due: %s\n", data.Due))
	}
	if len(data.Tags) > 0 {
		b.WriteString(fmt.Sprintf("tags: %s\n", strings.Join(data.Tags, ", ")))
	}
	b.WriteString("\nnotes:\n")
	if strings.TrimSpace(data.NotesView) == "" {
		b.WriteString(mutedStyle.Render("(none)"))
	} else {
		b.WriteString(data.NotesView)
	}
	return strings.TrimSpace(b.String())
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n\n%s", strings.Join(data.Bindings, "\n"), data.HelpView)
}

func RenderInput(label, view string) string {
	if view == "" {
		return ""
	}
	return label + ": " + view
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}
