package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/DonovanMods/vs-launcher/internal/domain"
)

// ParseErrorLabel is shown in place of mod metadata that could not be read
const ParseErrorLabel = "<parse error>"

// maxDescription bounds the description column
const maxDescription = 60

// BackMsg returns to the instance list
type BackMsg struct{}

// RemoveModMsg asks to delete an archive from an instance; the app confirms first
type RemoveModMsg struct {
	Folder      string
	ArchiveName string
}

// InstanceDetail shows one instance with its mods and recent sessions
type InstanceDetail struct {
	inst     *domain.Instance
	icon     string
	sessions []domain.PlaySession
	selected int
	keys     Keys
	theme    Theme
	width    int
	height   int
}

// NewInstanceDetail creates the detail view
func NewInstanceDetail(inst *domain.Instance, icon string, sessions []domain.PlaySession, keys Keys, theme Theme) InstanceDetail {
	return InstanceDetail{
		inst:     inst,
		icon:     icon,
		sessions: sessions,
		keys:     keys,
		theme:    theme,
		width:    80,
		height:   24,
	}
}

// WithTheme returns the view using theme
func (m InstanceDetail) WithTheme(theme Theme) InstanceDetail {
	m.theme = theme
	return m
}

// WithSelected moves the cursor to mod i, clamped to the mod list
func (m InstanceDetail) WithSelected(i int) InstanceDetail {
	if m.inst == nil || len(m.inst.Mods) == 0 || i < 0 {
		m.selected = 0
		return m
	}
	m.selected = min(i, len(m.inst.Mods)-1)
	return m
}

// Folder returns the folder of the shown instance
func (m InstanceDetail) Folder() string {
	if m.inst == nil {
		return ""
	}
	return m.inst.FolderName
}

// Selected returns the index of the selected mod
func (m InstanceDetail) Selected() int {
	return m.selected
}

// SelectedMod returns the selected mod
func (m InstanceDetail) SelectedMod() *domain.ModInfo {
	if m.inst == nil || len(m.inst.Mods) == 0 || m.selected >= len(m.inst.Mods) {
		return nil
	}
	return &m.inst.Mods[m.selected]
}

// Init implements tea.Model
func (m InstanceDetail) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m InstanceDetail) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (m InstanceDetail) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inst == nil {
		return m, nil
	}

	if m.keys.IsCancel(msg) || msg.String() == "backspace" {
		return m, emit(BackMsg{})
	}

	if selected, ok := move(m.keys, msg, m.selected, len(m.inst.Mods)); ok {
		m.selected = selected
		return m, nil
	}

	if m.keys.IsDelete(msg) {
		if mod := m.SelectedMod(); mod != nil {
			return m, emit(RemoveModMsg{Folder: m.inst.FolderName, ArchiveName: mod.ArchiveName})
		}
		return m, nil
	}

	switch msg.String() {
	case "e":
		return m, emit(EditInstanceMsg{Folder: m.inst.FolderName})
	case "p":
		return m, emit(LaunchInstanceMsg{Folder: m.inst.FolderName})
	}

	return m, nil
}

// View implements tea.Model
func (m InstanceDetail) View() string {
	if m.inst == nil {
		return m.theme.muted().Render("No instance selected.")
	}

	inst := m.inst
	output := m.theme.title().Render(inst.Name) + "\n"

	exe := inst.GameExePath
	if !inst.HasExecutable() {
		exe = "(not set)"
	}
	output += m.theme.muted().Render(fmt.Sprintf("Folder: %s  Icon: %s", inst.FolderName, m.icon)) + "\n"
	output += m.theme.muted().Render("Game: "+exe) + "\n\n"

	if len(inst.Mods) == 0 {
		output += m.theme.item().Render("No mods in this instance.") + "\n"
		output += m.theme.muted().Render("  Add one with: vsl mod add "+inst.FolderName+" <archive.zip>") + "\n"
	} else {
		output += m.theme.muted().Render(fmt.Sprintf("Mods (%d):", len(inst.Mods))) + "\n"
		output += m.renderMods() + "\n"
		if mod := m.SelectedMod(); mod != nil && mod.Err != nil {
			output += m.theme.errorText().Render("  "+mod.Err.Error()) + "\n"
		}
	}

	if len(m.sessions) > 0 {
		output += "\n" + m.theme.muted().Render("Recent sessions:") + "\n"
		for _, s := range m.sessions {
			output += m.theme.detail().Render(formatSession(s)) + "\n"
		}
	}

	output += m.theme.help().Render(m.keys.NavigationHelp() + "  p: play  e: edit  d: remove mod  esc: back")
	return output
}

func (m InstanceDetail) renderMods() string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(m.theme.muted()).
		Headers("", "Archive", "Name", "Version", "Mod ID", "Description").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return style.Bold(true).Foreground(m.theme.Title)
			case row == m.selected:
				return style.Foreground(m.theme.Accent)
			}
			return style
		})

	for i, mod := range m.inst.Mods {
		cursor := " "
		if i == m.selected {
			cursor = "▸"
		}
		t.Row(ModColumns(cursor, mod)...)
	}
	return t.String()
}

// ModColumns renders a mod as table cells: cursor, archive, name, version,
// mod id and a single-line description.
func ModColumns(cursor string, mod domain.ModInfo) []string {
	if !mod.OK() {
		return []string{cursor, mod.ArchiveName, ParseErrorLabel, "", "", ""}
	}
	return []string{cursor, mod.ArchiveName, mod.Name, mod.Version, mod.ModID, NormalizeDescription(mod.Description, maxDescription)}
}

// NormalizeDescription expands tabs to four spaces, puts the text on one
// line and truncates it to limit runes.
func NormalizeDescription(s string, limit int) string {
	s = strings.ReplaceAll(s, "\t", "    ")
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	runes := []rune(strings.TrimSpace(s))
	if limit > 3 && len(runes) > limit {
		return string(runes[:limit-3]) + "..."
	}
	return string(runes)
}

func formatSession(s domain.PlaySession) string {
	status := "ok"
	if !s.Succeeded() {
		status = fmt.Sprintf("exit %d", s.ExitCode)
	}
	return fmt.Sprintf("%s  %s  %s", s.StartedAt.Local().Format("2006-01-02 15:04"), FormatDuration(s.Duration()), status)
}

// FormatDuration renders a play time as "45s", "12m" or "1h35m"
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Round(time.Second).String()
	}
	return strings.TrimSuffix(d.Round(time.Minute).String(), "0s")
}
