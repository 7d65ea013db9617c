// Package panes holds the bubbletea sub-models of the launcher view.
package panes

import (
	"fmt"
	"strings"

	"github.com/kyleking/lazylaunch/internal/rank"
	"github.com/kyleking/lazylaunch/internal/ui"
)

const nameColumn = 28

// Section is one titled group of ranked entries.
type Section struct {
	Title   string
	Entries []rank.Entry
}

// ListModel renders the pinned, regular and hidden sections as one
// selectable list.
type ListModel struct {
	sections      []Section
	entries       []rank.Entry
	selectedIndex int
	offset        int
	focused       bool
	showScores    bool
	width         int
	height        int
}

// NewListModel creates an empty list.
func NewListModel() ListModel {
	return ListModel{focused: true}
}

// SetPartitions replaces the listed entries, keeping the selection on the
// same item when it is still present.
func (m *ListModel) SetPartitions(p rank.Partitions) {
	var selectedID string
	if e := m.SelectedEntry(); e != nil {
		selectedID = e.Item.ID
	}

	m.sections = m.sections[:0]
	for _, s := range []Section{{"Pinned", p.Pinned}, {"All", p.Regular}, {"Hidden", p.Hidden}} {
		if len(s.Entries) > 0 {
			m.sections = append(m.sections, s)
		}
	}
	m.entries = p.All()

	m.selectedIndex = 0
	for i, e := range m.entries {
		if e.Item.ID == selectedID {
			m.selectedIndex = i
			break
		}
	}
	m.scrollToSelection()
}

// SetSize updates the pane dimensions.
func (m *ListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.scrollToSelection()
}

// SetFocused updates the focus state.
func (m *ListModel) SetFocused(focused bool) {
	m.focused = focused
}

// SetShowScores toggles the score columns.
func (m *ListModel) SetShowScores(show bool) {
	m.showScores = show
}

// Len is the number of selectable entries.
func (m ListModel) Len() int {
	return len(m.entries)
}

// MoveUp moves selection up.
func (m *ListModel) MoveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	}
	m.scrollToSelection()
}

// MoveDown moves selection down.
func (m *ListModel) MoveDown() {
	if m.selectedIndex < len(m.entries)-1 {
		m.selectedIndex++
	}
	m.scrollToSelection()
}

// SelectedEntry returns the currently selected entry.
func (m ListModel) SelectedEntry() *rank.Entry {
	if len(m.entries) == 0 || m.selectedIndex >= len(m.entries) {
		return nil
	}
	return &m.entries[m.selectedIndex]
}

// visibleRows is the content height available for lines, headers included.
func (m ListModel) visibleRows() int {
	if m.height <= 0 {
		return 0
	}
	return max(m.height-3, 1)
}

func (m *ListModel) scrollToSelection() {
	rows := m.visibleRows()
	if rows == 0 {
		m.offset = 0
		return
	}
	line := m.lineOf(m.selectedIndex)
	if line < m.offset {
		m.offset = line
	}
	if line >= m.offset+rows {
		m.offset = line - rows + 1
	}
}

// lineOf maps an entry index to its line, counting section headers.
func (m ListModel) lineOf(index int) int {
	line, seen := 0, 0
	for _, s := range m.sections {
		line++
		if index < seen+len(s.Entries) {
			return line + index - seen
		}
		line += len(s.Entries)
		seen += len(s.Entries)
	}
	return line
}

// View renders the list inside a bordered pane.
func (m ListModel) View() string {
	style := ui.PaneStyle(m.width, m.height, m.focused)
	return style.Render(m.ViewContent())
}

// ViewContent renders just the list content without the pane border.
func (m ListModel) ViewContent() string {
	if len(m.entries) == 0 {
		return ui.SubtitleStyle.Render("No matching items")
	}

	var lines []string
	index := 0
	for _, s := range m.sections {
		lines = append(lines, ui.TableHeaderStyle.Render(fmt.Sprintf("%s (%d)", s.Title, len(s.Entries))))
		for _, e := range s.Entries {
			lines = append(lines, m.renderRow(e, index == m.selectedIndex))
			index++
		}
	}

	if rows := m.visibleRows(); rows > 0 && len(lines) > rows {
		end := min(m.offset+rows, len(lines))
		lines = lines[m.offset:end]
	}
	return strings.Join(lines, "\n")
}

func (m ListModel) renderRow(e rank.Entry, selected bool) string {
	indicator := "  "
	if selected {
		indicator = "> "
	}
	name := ui.PadRight(ui.TruncateWithEllipsis(e.DisplayName, nameColumn), nameColumn)
	row := indicator + name + "  " + ui.PadRight(e.Item.Action(), 8)
	if m.showScores {
		row += fmt.Sprintf("  %.3f  %.3f", e.Frecency, e.Relevance.Score)
	}

	rowStyle := ui.TableRowStyle
	if selected {
		rowStyle = ui.TableSelectedStyle
	}
	out := rowStyle.Render(row)
	if e.Item.Running {
		out += " " + ui.RunningStyle.Render("●")
	}
	return out
}
