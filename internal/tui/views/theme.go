// Package views holds the screens of the launcher TUI.
package views

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Keys reports which navigation action a key press maps to
type Keys interface {
	IsUp(tea.KeyMsg) bool
	IsDown(tea.KeyMsg) bool
	IsLeft(tea.KeyMsg) bool
	IsRight(tea.KeyMsg) bool
	IsHome(tea.KeyMsg) bool
	IsEnd(tea.KeyMsg) bool
	IsConfirm(tea.KeyMsg) bool
	IsCancel(tea.KeyMsg) bool
	IsDelete(tea.KeyMsg) bool
	NavigationHelp() string
}

// Theme is the colour palette shared by all views
type Theme struct {
	Name    string
	Title   lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Value   lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
}

var (
	DarkTheme = Theme{
		Name:    "dark",
		Title:   lipgloss.Color("69"),
		Accent:  lipgloss.Color("205"),
		Muted:   lipgloss.Color("241"),
		Value:   lipgloss.Color("82"),
		Error:   lipgloss.Color("196"),
		Success: lipgloss.Color("42"),
	}
	LightTheme = Theme{
		Name:    "light",
		Title:   lipgloss.Color("25"),
		Accent:  lipgloss.Color("162"),
		Muted:   lipgloss.Color("244"),
		Value:   lipgloss.Color("28"),
		Error:   lipgloss.Color("160"),
		Success: lipgloss.Color("29"),
	}
)

// ThemeFor returns the light theme when dark is false
func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme
	}
	return LightTheme
}

func (t Theme) title() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Title).MarginBottom(1)
}

func (t Theme) item() lipgloss.Style {
	return lipgloss.NewStyle().PaddingLeft(2)
}

func (t Theme) selected() lipgloss.Style {
	return lipgloss.NewStyle().PaddingLeft(2).Foreground(t.Accent).Bold(true)
}

func (t Theme) detail() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted).PaddingLeft(4)
}

func (t Theme) muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted)
}

func (t Theme) help() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1)
}

func (t Theme) errorText() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error)
}

// move applies list navigation keys to selected, wrapping at both ends
func move(keys Keys, msg tea.KeyMsg, selected, count int) (int, bool) {
	if count == 0 {
		return selected, false
	}
	switch {
	case keys.IsUp(msg):
		selected--
		if selected < 0 {
			selected = count - 1
		}
	case keys.IsDown(msg):
		selected++
		if selected >= count {
			selected = 0
		}
	case keys.IsHome(msg):
		selected = 0
	case keys.IsEnd(msg):
		selected = count - 1
	default:
		return selected, false
	}
	return selected, true
}
