package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/DonovanMods/vs-launcher/internal/domain"
)

// InstanceRow is one line of the instance list
type InstanceRow struct {
	Instance   *domain.Instance
	Icon       string    // Resolved icon name, the default icon's name when unset
	LastPlayed time.Time // Zero when never played
}

// OpenInstanceMsg asks to show an instance's details
type OpenInstanceMsg struct{ Folder string }

// NewInstanceMsg asks for the create form
type NewInstanceMsg struct{}

// EditInstanceMsg asks for the edit form of an instance
type EditInstanceMsg struct{ Folder string }

// DeleteInstanceMsg asks to delete an instance; the app confirms first
type DeleteInstanceMsg struct {
	Folder string
	Name   string
}

// LaunchInstanceMsg asks to start an instance's game
type LaunchInstanceMsg struct{ Folder string }

// Instances is the instance list view
type Instances struct {
	rows     []InstanceRow
	selected int
	keys     Keys
	theme    Theme
	now      func() time.Time
	width    int
	height   int
}

// NewInstances creates the instance list view
func NewInstances(rows []InstanceRow, keys Keys, theme Theme) Instances {
	return Instances{
		rows:   rows,
		keys:   keys,
		theme:  theme,
		now:    time.Now,
		width:  80,
		height: 24,
	}
}

// WithRows replaces the listed instances, keeping the selection on the same
// folder when it is still present.
func (m Instances) WithRows(rows []InstanceRow) Instances {
	current := ""
	if row := m.SelectedRow(); row != nil {
		current = row.Instance.FolderName
	}

	m.rows = rows
	m.selected = 0
	for i, row := range rows {
		if row.Instance.FolderName == current {
			m.selected = i
			break
		}
	}
	return m
}

// WithTheme returns the view using theme
func (m Instances) WithTheme(theme Theme) Instances {
	m.theme = theme
	return m
}

// Selected returns the currently selected index
func (m Instances) Selected() int {
	return m.selected
}

// Count returns the number of listed instances
func (m Instances) Count() int {
	return len(m.rows)
}

// SelectedRow returns the currently selected row
func (m Instances) SelectedRow() *InstanceRow {
	if len(m.rows) == 0 || m.selected >= len(m.rows) {
		return nil
	}
	return &m.rows[m.selected]
}

// Init implements tea.Model
func (m Instances) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Instances) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m Instances) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "n" {
		return m, emit(NewInstanceMsg{})
	}

	if selected, ok := move(m.keys, msg, m.selected, len(m.rows)); ok {
		m.selected = selected
		return m, nil
	}

	row := m.SelectedRow()
	if row == nil {
		return m, nil
	}
	folder := row.Instance.FolderName

	switch {
	case m.keys.IsConfirm(msg):
		return m, emit(OpenInstanceMsg{Folder: folder})
	case m.keys.IsDelete(msg):
		return m, emit(DeleteInstanceMsg{Folder: folder, Name: row.Instance.Name})
	}

	switch msg.String() {
	case "e":
		return m, emit(EditInstanceMsg{Folder: folder})
	case "p":
		return m, emit(LaunchInstanceMsg{Folder: folder})
	}

	return m, nil
}

// View implements tea.Model
func (m Instances) View() string {
	if len(m.rows) == 0 {
		return m.renderEmpty()
	}

	output := m.theme.title().Render(fmt.Sprintf("Instances (%d)", len(m.rows))) + "\n\n"

	for i, row := range m.rows {
		cursor := "  "
		style := m.theme.item()
		if i == m.selected {
			cursor = "▸ "
			style = m.theme.selected()
		}

		inst := row.Instance
		line := fmt.Sprintf("%s%s  %s", cursor, inst.Name, m.theme.muted().Render(pluralMods(inst.ModCount())))
		output += style.Render(line) + "\n"

		if i == m.selected {
			output += m.theme.detail().Render(fmt.Sprintf("Folder: %s  Icon: %s", inst.FolderName, row.Icon)) + "\n"
			output += m.theme.detail().Render("Last played: "+m.lastPlayed(row.LastPlayed)) + "\n"
			if !inst.HasExecutable() {
				output += m.theme.detail().Render("No game executable set") + "\n"
			}
			output += "\n"
		}
	}

	output += m.theme.help().Render(m.keys.NavigationHelp() + "  enter: open  p: play  n: new  e: edit  d: delete")
	return output
}

func (m Instances) lastPlayed(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, m.now(), "ago", "from now")
}

func (m Instances) renderEmpty() string {
	var b strings.Builder
	b.WriteString("No instances yet.\n\n")
	b.WriteString("Press n to create one, or from the shell:\n")
	b.WriteString("  vsl instance new \"My Instance\" --exe /path/to/Vintagestory\n")
	return m.theme.muted().Render(b.String())
}

func pluralMods(n int) string {
	if n == 1 {
		return "1 mod"
	}
	return fmt.Sprintf("%d mods", n)
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
