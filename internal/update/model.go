package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/taskmaster/internal/commands"
	"github.com/sandeepkv93/taskmaster/internal/model"
	"github.com/sandeepkv93/taskmaster/internal/reminder"
	"github.com/sandeepkv93/taskmaster/internal/stats"
	"github.com/sandeepkv93/taskmaster/internal/store"
	"github.com/sandeepkv93/taskmaster/internal/views"
)

const defaultStatusTTL = 4 * time.Second

type Mode string

const (
	ModeNormal   Mode = "normal"
	ModeQuickAdd Mode = "quick-add"
	ModePalette  Mode = "palette"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Add     key.Binding
	Palette key.Binding
	Filter  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "move up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "move down")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle done")),
		Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "quick add")),
		Palette: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command palette")),
		Filter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle filter")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Palette, k.Filter, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Delete},
		{k.Add, k.Palette, k.Filter, k.Help, k.Quit},
	}
}

// Model is the bubbletea model. Mutations go through the store; the view
// is rebuilt from store snapshots.
type Model struct {
	Mode        Mode
	SelectedID  string
	HelpVisible bool
	Status      StatusBar
	Keys        KeyMap
	Quitting    bool

	LastReminder *reminder.DueEvent

	store     *store.Store
	feed      *stateFeed
	reminders *reminder.Engine
	now       func() time.Time
	parser    commands.Parser

	statusSeq int
	statusTTL time.Duration

	state   model.State
	visible []model.Todo
	stats   stats.Stats
	cursor  int
	width   int

	quickAddInput textinput.Model
	commandInput  textinput.Model
	rateBar       progress.Model
	helpModel     help.Model
	notes         *views.MarkdownRenderer
}

type Option func(*Model)

func WithReminders(engine *reminder.Engine) Option {
	return func(m *Model) {
		m.reminders = engine
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

type StateChangedMsg struct {
	State model.State
}

type ReminderDueMsg struct {
	Event reminder.DueEvent
}

// ClearStatusMsg clears the status line unless a newer status replaced
// the one it was scheduled for.
type ClearStatusMsg struct {
	Seq int
}

func NewModel(st *store.Store, opts ...Option) Model {
	m := Model{
		Mode:      ModeNormal,
		Keys:      DefaultKeyMap(),
		store:     st,
		now:       time.Now,
		parser:    commands.Parser{Loc: time.Local},
		statusTTL: defaultStatusTTL,
		notes:     &views.MarkdownRenderer{},
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.initBubbleComponents()
	if st != nil {
		m.feed = subscribe(st)
		m.applyState(st.Snapshot())
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.quickAddInput = textinput.New()
	m.quickAddInput.Prompt = "add> "
	m.quickAddInput.Placeholder = "text !high @work due:2026-01-31 #tag"
	m.quickAddInput.CharLimit = 256
	m.quickAddInput.Width = 48

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.rateBar = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	m.rateBar.Width = 30

	m.helpModel = help.New()
}

func (m Model) Close() {
	if m.feed != nil {
		m.feed.close()
	}
}

func (m Model) Todos() []model.Todo {
	return m.state.Todos
}

func (m Model) Filter() model.Filter {
	return m.state.Filter
}

func (m Model) Visible() []model.Todo {
	return m.visible
}

func (m Model) Stats() stats.Stats {
	return m.stats
}
