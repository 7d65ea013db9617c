// Package app is the interactive launcher: a search bar over the ranked list.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kyleking/lazylaunch/internal/openable"
	"github.com/kyleking/lazylaunch/internal/prefs"
	"github.com/kyleking/lazylaunch/internal/rank"
	"github.com/kyleking/lazylaunch/internal/ui"
	"github.com/kyleking/lazylaunch/internal/ui/panes"
)

// Launcher is the session surface the view drives.
type Launcher interface {
	Rank(query string) rank.Partitions
	Prefs() prefs.Document
	Item(id string) (openable.Openable, bool)
	RecordUsage(ctx context.Context, id string) (bool, error)
	TogglePin(ctx context.Context, id string) (bool, error)
	ToggleHidden(ctx context.Context, id string) (bool, error)
	ToggleRunningCheck(ctx context.Context, id string) (bool, error)
	TogglePrioritizeRunning(ctx context.Context) error
	ToggleShowHidden(ctx context.Context) error
	SetSortMode(ctx context.Context, m prefs.SortMode) error
	Reload(ctx context.Context) error
}

// Model is the root bubbletea model for the application.
type Model struct {
	ctx    context.Context
	sess   Launcher
	search textinput.Model
	list   panes.ListModel
	help   help.Model
	keys   KeyMap
	copy   func(string) error

	doc        prefs.Document
	status     string
	err        error
	showScores bool

	width  int
	height int
}

// New creates a new application model and runs the first ranking pass.
func New(ctx context.Context, sess Launcher) Model {
	search := textinput.New()
	search.Placeholder = "Search apps and websites"
	search.Prompt = "› "
	search.Focus()

	m := Model{
		ctx:    ctx,
		sess:   sess,
		search: search,
		list:   panes.NewListModel(),
		help:   help.New(),
		keys:   DefaultKeyMap(),
		copy:   clipboard.WriteAll,
	}
	m.refresh()
	return m
}

// WithClipboard replaces the clipboard writer.
func (m Model) WithClipboard(fn func(string) error) Model {
	m.copy = fn
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(msg.Width-4, 10)
		m.list.SetSize(msg.Width, max(msg.Height-4, 3))
		return m, nil

	case StoreChangedMsg:
		return m, m.run(func(ctx context.Context) (string, error) {
			return "reloaded " + msg.Key, m.sess.Reload(ctx)
		})

	case actionDoneMsg:
		m.status, m.err = msg.status, msg.err
		m.refresh()
		return m, nil

	case OpenedMsg:
		m.status, m.err = fmt.Sprintf("%s %s", msg.Action, msg.Locator), nil
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.list.MoveUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.list.MoveDown()
		return m, nil

	case key.Matches(msg, m.keys.Open):
		return m, m.openSelected()

	case key.Matches(msg, m.keys.Pin):
		return m, m.onSelected("pin toggled for", m.sess.TogglePin)

	case key.Matches(msg, m.keys.Hide):
		return m, m.onSelected("hidden toggled for", m.sess.ToggleHidden)

	case key.Matches(msg, m.keys.RunningCheck):
		return m, m.onSelected("running check toggled for", m.sess.ToggleRunningCheck)

	case key.Matches(msg, m.keys.PrioritizeRunning):
		return m, m.run(func(ctx context.Context) (string, error) {
			return "running first toggled", m.sess.TogglePrioritizeRunning(ctx)
		})

	case key.Matches(msg, m.keys.ShowHidden):
		return m, m.run(func(ctx context.Context) (string, error) {
			return "show hidden toggled", m.sess.ToggleShowHidden(ctx)
		})

	case key.Matches(msg, m.keys.CycleSort):
		next := m.doc.SortMode.Next()
		return m, m.run(func(ctx context.Context) (string, error) {
			return "sorting by " + string(next), m.sess.SetSortMode(ctx, next)
		})

	case key.Matches(msg, m.keys.CopyLocator):
		m.copySelected()
		return m, nil

	case key.Matches(msg, m.keys.Scores):
		m.showScores = !m.showScores
		m.list.SetShowScores(m.showScores)
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.refresh()
	}
	return m, cmd
}

// refresh re-ranks for the current query.
func (m *Model) refresh() {
	m.doc = m.sess.Prefs()
	m.list.SetPartitions(m.sess.Rank(m.search.Value()))
}

// run executes fn off the update loop and reports its outcome.
func (m Model) run(fn func(ctx context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		status, err := fn(ctx)
		return actionDoneMsg{status: status, err: err}
	}
}

func (m Model) onSelected(verb string, fn func(context.Context, string) (bool, error)) tea.Cmd {
	e := m.list.SelectedEntry()
	if e == nil {
		return nil
	}
	id, name := e.Item.ID, e.DisplayName
	return m.run(func(ctx context.Context) (string, error) {
		_, err := fn(ctx, id)
		return verb + " " + name, err
	})
}

func (m Model) openSelected() tea.Cmd {
	e := m.list.SelectedEntry()
	if e == nil {
		return nil
	}
	item, ctx := e.Item, m.ctx
	return func() tea.Msg {
		if _, err := m.sess.RecordUsage(ctx, item.ID); err != nil {
			return actionDoneMsg{status: "recording usage failed", err: err}
		}
		return OpenedMsg{ID: item.ID, Action: item.Action(), Locator: item.Locator}
	}
}

func (m *Model) copySelected() {
	e := m.list.SelectedEntry()
	if e == nil {
		return
	}
	if err := m.copy(e.Item.Locator); err != nil {
		m.status, m.err = "copy failed", err
		return
	}
	m.status, m.err = "copied "+e.Item.Locator, nil
}

// Status returns the last status line and error.
func (m Model) Status() (string, error) {
	return m.status, m.err
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := ui.TitleStyle.Render("lazylaunch") + "  " + ui.SubtitleStyle.Render(m.modeLine())

	footer := ui.HelpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
	if m.err != nil {
		footer = ui.ErrorStyle.Render(fmt.Sprintf("%s: %v", m.status, m.err))
	} else if m.status != "" {
		footer = ui.StatusStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.search.View(), m.list.View(), footer)
}

func (m Model) modeLine() string {
	line := "sort: " + string(m.doc.SortMode)
	if m.doc.PrioritizeRunningFirst {
		line += " · running first"
	}
	if m.doc.ShowHidden {
		line += " · showing hidden"
	}
	return line
}

// RunOptions configures Run.
type RunOptions struct {
	// Watch, when set, reports external changes to persisted documents.
	Watch  func(ctx context.Context, onChange func(key string)) error
	Logger *slog.Logger
}

// Run starts the interactive launcher and blocks until it exits.
func Run(ctx context.Context, sess Launcher, opts RunOptions) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(ctx, sess), tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.Watch != nil {
		go func() {
			err := opts.Watch(ctx, func(key string) {
				p.Send(StoreChangedMsg{Key: key})
			})
			if err != nil && ctx.Err() == nil {
				opts.Logger.Warn("watching storage failed", "error", err)
			}
		}()
	}

	_, err := p.Run()
	return err
}
