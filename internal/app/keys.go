package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the launcher's key bindings.
type KeyMap struct {
	Open              key.Binding
	Up                key.Binding
	Down              key.Binding
	Pin               key.Binding
	Hide              key.Binding
	RunningCheck      key.Binding
	PrioritizeRunning key.Binding
	ShowHidden        key.Binding
	CopyLocator       key.Binding
	CycleSort         key.Binding
	Scores            key.Binding
	Quit              key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+k"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+j"),
			key.WithHelp("↓", "down"),
		),
		Pin: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "pin"),
		),
		Hide: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "hide"),
		),
		RunningCheck: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "running check"),
		),
		PrioritizeRunning: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "running first"),
		),
		ShowHidden: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "show hidden"),
		),
		CopyLocator: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy path"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "sort"),
		),
		Scores: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "scores"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Pin, k.Hide, k.ShowHidden, k.CycleSort, k.CopyLocator, k.Quit}
}
