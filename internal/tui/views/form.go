package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DonovanMods/vs-launcher/internal/domain"
)

const (
	fieldName = iota
	fieldExe
	fieldIcon
	fieldCount
)

// noIcon is the picker entry that leaves the icon unset
const noIcon = "(default)"

// FormSubmittedMsg carries the values of a submitted instance form.
// Folder is empty when creating a new instance. IconChanged is false when
// the picked icon is the one the instance already had.
type FormSubmittedMsg struct {
	Folder      string
	Name        string
	Icon        string
	IconChanged bool
	GameExePath string
}

// FormCancelledMsg is sent when the form is dismissed
type FormCancelledMsg struct{}

// InstanceForm creates or edits an instance
type InstanceForm struct {
	folder string
	name   textinput.Model
	exe    textinput.Model
	icons  []string // icons[0] is noIcon
	icon   int
	orig   string // icon configured when the form opened
	stale  string // configured icon whose file is gone; kept selectable
	focus  int
	err    string
	theme  Theme
	width  int
	height int
}

// NewInstanceForm creates the form. A nil inst gives an empty create form.
func NewInstanceForm(inst *domain.Instance, icons []string, theme Theme) InstanceForm {
	name := textinput.New()
	name.Placeholder = "Instance name"
	name.CharLimit = 100
	name.Width = 40
	name.Focus()

	exe := textinput.New()
	exe.Placeholder = "/path/to/Vintagestory"
	exe.CharLimit = 1024
	exe.Width = 60

	f := InstanceForm{
		name:   name,
		exe:    exe,
		icons:  append([]string{noIcon}, icons...),
		theme:  theme,
		width:  80,
		height: 24,
	}

	if inst != nil {
		f.folder = inst.FolderName
		f.name.SetValue(inst.Name)
		f.exe.SetValue(inst.GameExePath)
		f.orig = inst.Icon
		for i, icon := range f.icons {
			if i > 0 && icon == inst.Icon {
				f.icon = i
			}
		}
		if inst.Icon != "" && f.icon == 0 {
			f.stale = inst.Icon
			f.icons = append(f.icons, inst.Icon)
			f.icon = len(f.icons) - 1
		}
	}
	return f
}

// Editing reports whether the form edits an existing instance
func (f InstanceForm) Editing() bool {
	return f.folder != ""
}

// Focused returns the index of the focused field
func (f InstanceForm) Focused() int {
	return f.focus
}

// Icon returns the picked icon, empty for the default
func (f InstanceForm) Icon() string {
	if f.icon == 0 {
		return ""
	}
	return f.icons[f.icon]
}

// WithError shows err under the form, typically a rejected submission
func (f InstanceForm) WithError(err error) InstanceForm {
	f.err = err.Error()
	return f
}

// Init implements tea.Model
func (f InstanceForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (f InstanceForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return f.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		f.width = msg.Width
		f.height = msg.Height
		return f, nil
	}

	return f.updateInputs(msg)
}

func (f InstanceForm) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return f, emit(FormCancelledMsg{})

	case tea.KeyEnter:
		return f.submit()

	case tea.KeyTab, tea.KeyDown:
		return f.setFocus((f.focus + 1) % fieldCount), nil

	case tea.KeyShiftTab, tea.KeyUp:
		return f.setFocus((f.focus + fieldCount - 1) % fieldCount), nil

	case tea.KeyLeft, tea.KeyRight:
		if f.focus == fieldIcon {
			step := 1
			if msg.Type == tea.KeyLeft {
				step = len(f.icons) - 1
			}
			f.icon = (f.icon + step) % len(f.icons)
			return f, nil
		}
	}

	return f.updateInputs(msg)
}

func (f InstanceForm) setFocus(field int) InstanceForm {
	f.focus = field
	f.name.Blur()
	f.exe.Blur()
	switch field {
	case fieldName:
		f.name.Focus()
	case fieldExe:
		f.exe.Focus()
	}
	return f
}

func (f InstanceForm) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case fieldName:
		f.name, cmd = f.name.Update(msg)
	case fieldExe:
		f.exe, cmd = f.exe.Update(msg)
	}
	return f, cmd
}

func (f InstanceForm) submit() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(f.name.Value())
	if name == "" {
		f.err = "name cannot be empty"
		return f.setFocus(fieldName), nil
	}
	f.err = ""

	return f, emit(FormSubmittedMsg{
		Folder:      f.folder,
		Name:        name,
		Icon:        f.Icon(),
		IconChanged: f.Icon() != f.orig,
		GameExePath: strings.TrimSpace(f.exe.Value()),
	})
}

// View implements tea.Model
func (f InstanceForm) View() string {
	title := "New Instance"
	if f.Editing() {
		title = "Edit Instance"
	}
	output := f.theme.title().Render(title) + "\n\n"

	label := func(field int, text string) string {
		if field == f.focus {
			return f.theme.selected().Render("▸ " + text)
		}
		return f.theme.item().Render("  " + text)
	}

	output += label(fieldName, "Name") + "\n    " + f.name.View() + "\n\n"
	output += label(fieldExe, "Game executable") + "\n    " + f.exe.View() + "\n\n"

	picker := ""
	available := len(f.icons) - 1
	for i, icon := range f.icons {
		if f.stale != "" && i == len(f.icons)-1 {
			icon += " (missing)"
			available--
		}
		if i == f.icon {
			picker += f.theme.selected().UnsetPaddingLeft().Render("[" + icon + "]")
		} else {
			picker += f.theme.muted().Render(" " + icon + " ")
		}
	}
	output += label(fieldIcon, fmt.Sprintf("Icon (%d available)", available)) + "\n    " + picker + "\n"

	if f.Editing() {
		output += "\n" + f.theme.muted().Render("  Folder "+f.folder+" stays the same when renaming.") + "\n"
	}
	if f.err != "" {
		output += "\n" + f.theme.errorText().Render("  "+f.err) + "\n"
	}

	output += f.theme.help().Render("tab/↑/↓: field  ←/→: icon  enter: save  esc: cancel")
	return output
}
