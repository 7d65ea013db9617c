// Package ui holds the shared look of the terminal interface.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a color palette.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	SoftMuted lipgloss.Color
	Text      lipgloss.Color
	Running   lipgloss.Color
}

// DefaultTheme is the built-in palette.
var DefaultTheme = Theme{
	Primary:   lipgloss.Color("#7D56F4"),
	Secondary: lipgloss.Color("#5A56E0"),
	Accent:    lipgloss.Color("#F25D94"),
	SoftMuted: lipgloss.Color("#8A8A8A"),
	Text:      lipgloss.Color("#DDDDDD"),
	Running:   lipgloss.Color("#04B575"),
}

var currentTheme = DefaultTheme

// Styles set by ApplyTheme.
var (
	// Pane frames.
	BorderStyle        lipgloss.Style
	FocusedBorderStyle lipgloss.Style

	// Header and footer.
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	HelpStyle     lipgloss.Style
	StatusStyle   lipgloss.Style
	ErrorStyle    lipgloss.Style

	// List rows.
	TableHeaderStyle   lipgloss.Style
	TableRowStyle      lipgloss.Style
	TableSelectedStyle lipgloss.Style
	RunningStyle       lipgloss.Style
)

func init() {
	ApplyTheme()
}

// InitTheme sets the theme and applies colors.
func InitTheme(t Theme) {
	currentTheme = t
	ApplyTheme()
}

// ApplyTheme rebuilds every style from the current theme.
func ApplyTheme() {
	t := currentTheme
	rounded := lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder())

	BorderStyle = rounded.BorderForeground(t.Secondary)
	FocusedBorderStyle = rounded.BorderForeground(t.Primary)

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	SubtitleStyle = lipgloss.NewStyle().Foreground(t.SoftMuted)
	HelpStyle = SubtitleStyle
	StatusStyle = lipgloss.NewStyle().Foreground(t.Secondary)
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)

	TableHeaderStyle = StatusStyle.Bold(true)
	TableRowStyle = lipgloss.NewStyle().Foreground(t.Text)
	TableSelectedStyle = ErrorStyle
	RunningStyle = lipgloss.NewStyle().Foreground(t.Running)
}

// PaneStyle returns a style for a pane with optional focus.
func PaneStyle(width, height int, focused bool) lipgloss.Style {
	style := BorderStyle
	if focused {
		style = FocusedBorderStyle
	}
	return style.Width(max(width-2, 0)).Height(max(height-2, 0))
}

// PadRight pads s with spaces to the given display width.
func PadRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// TruncateWithEllipsis shortens s to at most maxLen runes, ending in "...".
func TruncateWithEllipsis(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
