package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DonovanMods/vs-launcher/internal/core"
	"github.com/DonovanMods/vs-launcher/internal/domain"
	"github.com/DonovanMods/vs-launcher/internal/storage/config"
	"github.com/DonovanMods/vs-launcher/internal/tui/views"
	"github.com/DonovanMods/vs-launcher/internal/watch"
)

// recentSessions is how many sessions the detail view lists
const recentSessions = 5

// ViewType represents different screens in the TUI
type ViewType int

const (
	ViewInstances ViewType = iota
	ViewInstance
	ViewForm
)

// NavigateMsg is sent to change views
type NavigateMsg struct {
	View ViewType
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Err error
}

type instancesLoadedMsg struct {
	rows []views.InstanceRow
	err  error
}

type detailLoadedMsg struct {
	inst     *domain.Instance
	icon     string
	sessions []domain.PlaySession
	err      error
}

type formReadyMsg struct {
	inst  *domain.Instance
	icons []string
	err   error
}

type savedMsg struct {
	inst *domain.Instance
	err  error
}

type deletedMsg struct {
	folder string
	err    error
}

type modRemovedMsg struct {
	folder  string
	archive string
	err     error
}

type launchDoneMsg struct {
	folder  string
	session *domain.PlaySession
	err     error
}

type rootChangedMsg struct{}

// confirmation is a pending y/N question
type confirmation struct {
	prompt string
	action tea.Cmd
}

// App is the main TUI application model
type App struct {
	service     *core.Service
	watcher     *watch.Watcher
	keys        *KeyMap
	theme       views.Theme
	currentView ViewType
	formReturn  ViewType
	width       int
	height      int
	err         error
	status      string
	confirm     *confirmation
	showHelp    bool
	launching   string

	instances views.Instances
	detail    views.InstanceDetail
	form      views.InstanceForm
}

// NewApp creates a new TUI application
func NewApp(service *core.Service) App {
	keys := NewKeyMap(KeysVim)
	theme := views.DarkTheme
	if service != nil {
		keys = NewKeyMap(service.Config().Keybindings)
		theme = views.ThemeFor(service.Config().IsDark())
	}

	return App{
		service:     service,
		keys:        keys,
		theme:       theme,
		currentView: ViewInstances,
		width:       80,
		height:      24,
		instances:   views.NewInstances(nil, keys, theme),
	}
}

// WithWatcher refreshes the app whenever w reports a change
func (a App) WithWatcher(w *watch.Watcher) App {
	a.watcher = w
	return a
}

// CurrentView returns the current view type
func (a App) CurrentView() ViewType {
	return a.currentView
}

// Theme returns the active theme
func (a App) Theme() views.Theme {
	return a.theme
}

// Status returns the last status line
func (a App) Status() string {
	return a.status
}

// Err returns the error currently shown, if any
func (a App) Err() error {
	return a.err
}

// Confirming reports whether a y/N question is pending
func (a App) Confirming() bool {
	return a.confirm != nil
}

// Instances returns the instance list view
func (a App) Instances() views.Instances {
	return a.instances
}

// Detail returns the instance detail view
func (a App) Detail() views.InstanceDetail {
	return a.detail
}

// Form returns the instance form
func (a App) Form() views.InstanceForm {
	return a.form
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	return tea.Batch(a.loadInstances(), a.waitForChange())
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a.updateCurrentView(msg)

	case NavigateMsg:
		a.currentView = msg.View
		return a, nil

	case ErrorMsg:
		a.err = msg.Err
		return a, nil

	case rootChangedMsg:
		return a, tea.Batch(a.reload(), a.waitForChange())
	}

	if model, cmd, ok := a.handleViewMsg(msg); ok {
		return model, cmd
	}
	if model, cmd, ok := a.handleResultMsg(msg); ok {
		return model, cmd
	}

	return a.updateCurrentView(msg)
}

func (a App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	if a.confirm != nil {
		c := a.confirm
		a.confirm = nil
		if msg.String() == "y" || msg.String() == "Y" {
			return a, c.action
		}
		a.status = "Cancelled"
		return a, nil
	}

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	// the form owns every key so text can be typed
	if a.currentView == ViewForm {
		return a.updateCurrentView(msg)
	}

	switch {
	case a.keys.IsQuit(msg):
		return a, tea.Quit
	case a.keys.IsHelp(msg):
		a.showHelp = true
		return a, nil
	case a.keys.IsRefresh(msg):
		a.status = "Refreshing..."
		return a, a.reload()
	case a.keys.IsToggleTheme(msg):
		return a.toggleTheme(), nil
	}

	return a.updateCurrentView(msg)
}

func (a App) handleViewMsg(msg tea.Msg) (tea.Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case views.OpenInstanceMsg:
		return a, a.loadDetail(msg.Folder), true

	case views.BackMsg:
		a.currentView = ViewInstances
		return a, a.loadInstances(), true

	case views.NewInstanceMsg:
		a.formReturn = a.currentView
		return a, a.loadForm(""), true

	case views.EditInstanceMsg:
		a.formReturn = a.currentView
		return a, a.loadForm(msg.Folder), true

	case views.FormCancelledMsg:
		a.currentView = a.formReturn
		return a, nil, true

	case views.FormSubmittedMsg:
		return a, a.save(msg), true

	case views.DeleteInstanceMsg:
		a.confirm = &confirmation{
			prompt: fmt.Sprintf("Delete %q and all its mods? [y/N]", msg.Name),
			action: a.deleteInstance(msg.Folder),
		}
		return a, nil, true

	case views.RemoveModMsg:
		a.confirm = &confirmation{
			prompt: fmt.Sprintf("Remove %s? [y/N]", msg.ArchiveName),
			action: a.removeMod(msg.Folder, msg.ArchiveName),
		}
		return a, nil, true

	case views.LaunchInstanceMsg:
		if a.launching != "" {
			a.status = "Already playing " + a.launching
			return a, nil, true
		}
		a.launching = msg.Folder
		a.err = nil
		a.status = "Playing " + msg.Folder + "..."
		return a, a.launch(msg.Folder), true
	}
	return a, nil, false
}

func (a App) handleResultMsg(msg tea.Msg) (tea.Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case instancesLoadedMsg:
		a.err = msg.err
		if msg.err == nil && a.status == "Refreshing..." {
			a.status = ""
		}
		a.instances = a.instances.WithRows(msg.rows)
		return a, nil, true

	case detailLoadedMsg:
		if msg.err != nil {
			a.err = msg.err
			if a.currentView == ViewInstance {
				a.currentView = ViewInstances
				return a, a.loadInstances(), true
			}
			return a, nil, true
		}
		a.err = nil
		refreshed := a.currentView == ViewInstance && a.detail.Folder() == msg.inst.FolderName
		selected := a.detail.Selected()
		a.detail = views.NewInstanceDetail(msg.inst, msg.icon, msg.sessions, a.keys, a.theme)
		if refreshed {
			a.detail = a.detail.WithSelected(selected)
		}
		a.currentView = ViewInstance
		return a, nil, true

	case formReadyMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil, true
		}
		a.err = nil
		a.form = views.NewInstanceForm(msg.inst, msg.icons, a.theme)
		a.currentView = ViewForm
		return a, a.form.Init(), true

	case savedMsg:
		if msg.err != nil {
			a.form = a.form.WithError(msg.err)
			return a, nil, true
		}
		a.status = "Saved " + msg.inst.Name
		if a.formReturn == ViewInstance {
			return a, a.loadDetail(msg.inst.FolderName), true
		}
		a.currentView = ViewInstances
		return a, a.loadInstances(), true

	case deletedMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil, true
		}
		a.status = "Deleted " + msg.folder
		a.currentView = ViewInstances
		return a, a.loadInstances(), true

	case modRemovedMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil, true
		}
		a.status = "Removed " + msg.archive
		return a, a.loadDetail(msg.folder), true

	case launchDoneMsg:
		a.launching = ""
		if msg.err != nil {
			a.err = msg.err
			a.status = ""
		} else if msg.session != nil {
			a.status = fmt.Sprintf("%s exited after %s", msg.folder, views.FormatDuration(msg.session.Duration()))
		}
		return a, a.reload(), true
	}
	return a, nil, false
}

func (a App) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var model tea.Model
	var cmd tea.Cmd

	switch a.currentView {
	case ViewInstances:
		model, cmd = a.instances.Update(msg)
		a.instances = model.(views.Instances)
	case ViewInstance:
		model, cmd = a.detail.Update(msg)
		a.detail = model.(views.InstanceDetail)
	case ViewForm:
		model, cmd = a.form.Update(msg)
		a.form = model.(views.InstanceForm)
	}

	return a, cmd
}

func (a App) toggleTheme() App {
	dark := a.theme.Name != views.DarkTheme.Name
	a.theme = views.ThemeFor(dark)
	a.instances = a.instances.WithTheme(a.theme)
	a.detail = a.detail.WithTheme(a.theme)

	if a.service != nil {
		cfg := a.service.Config()
		cfg.Theme = config.ThemeLight
		if dark {
			cfg.Theme = config.ThemeDark
		}
		if err := cfg.Save(a.service.ConfigDir()); err != nil {
			a.err = fmt.Errorf("saving theme: %w", err)
		}
	}
	a.status = "Theme: " + a.theme.Name
	return a
}

// reload refreshes the list and, when shown, the instance detail
func (a App) reload() tea.Cmd {
	if a.currentView == ViewInstance && a.detail.Folder() != "" {
		return tea.Batch(a.loadInstances(), a.loadDetail(a.detail.Folder()))
	}
	return a.loadInstances()
}

func (a App) loadInstances() tea.Cmd {
	service := a.service
	return func() tea.Msg {
		if service == nil {
			return instancesLoadedMsg{}
		}
		instances, err := service.ListInstances()
		if err != nil {
			return instancesLoadedMsg{err: err}
		}

		rows := make([]views.InstanceRow, 0, len(instances))
		for _, inst := range instances {
			row := views.InstanceRow{
				Instance: inst,
				Icon:     service.ResolveIcon(inst.Icon).Name,
			}
			if last, ok, err := service.LastPlayed(inst.FolderName); err == nil && ok {
				row.LastPlayed = last
			}
			rows = append(rows, row)
		}
		return instancesLoadedMsg{rows: rows}
	}
}

func (a App) loadDetail(folder string) tea.Cmd {
	service := a.service
	return func() tea.Msg {
		if service == nil {
			return detailLoadedMsg{err: domain.ErrInstanceNotFound}
		}
		inst, err := service.GetInstance(folder)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		sessions, err := service.Sessions(folder, recentSessions)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		return detailLoadedMsg{inst: inst, icon: service.ResolveIcon(inst.Icon).Name, sessions: sessions}
	}
}

func (a App) loadForm(folder string) tea.Cmd {
	service := a.service
	return func() tea.Msg {
		if service == nil {
			return formReadyMsg{}
		}
		icons, err := service.ListIcons()
		if err != nil {
			return formReadyMsg{err: err}
		}
		if folder == "" {
			return formReadyMsg{icons: icons}
		}
		inst, err := service.GetInstance(folder)
		return formReadyMsg{inst: inst, icons: icons, err: err}
	}
}

func (a App) save(msg views.FormSubmittedMsg) tea.Cmd {
	service := a.service
	return func() tea.Msg {
		if service == nil {
			return savedMsg{err: fmt.Errorf("no service")}
		}
		if msg.Folder == "" {
			inst, err := service.CreateInstance(core.CreateOptions{
				Name:        msg.Name,
				Icon:        msg.Icon,
				GameExePath: msg.GameExePath,
			})
			return savedMsg{inst: inst, err: err}
		}
		opts := core.EditOptions{
			Name:        &msg.Name,
			GameExePath: &msg.GameExePath,
		}
		// an untouched picker must not clear or re-check a missing icon
		if msg.IconChanged {
			opts.Icon = &msg.Icon
		}
		inst, err := service.EditInstance(msg.Folder, opts)
		return savedMsg{inst: inst, err: err}
	}
}

func (a App) deleteInstance(folder string) tea.Cmd {
	service := a.service
	return func() tea.Msg {
		if service == nil {
			return deletedMsg{folder: folder, err: domain.ErrInstanceNotFound}
		}
		return deletedMsg{folder: folder, err: service.DeleteInstance(folder)}
	}
}

func (a App) removeMod(folder, archive string) tea.Cmd {
	service := a.service
	return func() tea.Msg {
		if service == nil {
			return modRemovedMsg{folder: folder, archive: archive, err: domain.ErrInstanceNotFound}
		}
		return modRemovedMsg{folder: folder, archive: archive, err: service.RemoveMod(folder, archive)}
	}
}

func (a App) launch(folder string) tea.Cmd {
	service := a.service
	return func() tea.Msg {
		if service == nil {
			return launchDoneMsg{folder: folder, err: domain.ErrInstanceNotFound}
		}
		session, err := service.Launch(context.Background(), folder)
		return launchDoneMsg{folder: folder, session: session, err: err}
	}
}

func (a App) waitForChange() tea.Cmd {
	if a.watcher == nil {
		return nil
	}
	changes := a.watcher.Changes()
	return func() tea.Msg {
		<-changes
		return rootChangedMsg{}
	}
}

// View implements tea.Model
func (a App) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.theme.Accent).
		MarginBottom(1)

	header := titleStyle.Render("vsl - Vintage Story Launcher")
	if a.service != nil {
		header += lipgloss.NewStyle().Foreground(a.theme.Muted).Render("  " + a.service.RootDir())
	}

	var content string
	if a.showHelp {
		content = a.keys.FullHelp()
	} else {
		content = a.renderCurrentView()
	}

	var notice string
	switch {
	case a.confirm != nil:
		notice = lipgloss.NewStyle().Bold(true).Foreground(a.theme.Accent).Render(a.confirm.prompt)
	case a.err != nil:
		notice = lipgloss.NewStyle().Foreground(a.theme.Error).Render(fmt.Sprintf("Error: %v", a.err))
	case a.status != "":
		notice = lipgloss.NewStyle().Foreground(a.theme.Success).Render(a.status)
	}

	footer := lipgloss.NewStyle().
		Foreground(a.theme.Muted).
		MarginTop(1).
		Render("q: quit  ?: help  r: refresh  t: theme")

	out := fmt.Sprintf("%s\n\n%s\n", header, content)
	if notice != "" {
		out += "\n" + notice + "\n"
	}
	return out + footer
}

func (a App) renderCurrentView() string {
	switch a.currentView {
	case ViewInstances:
		return a.instances.View()
	case ViewInstance:
		return a.detail.View()
	case ViewForm:
		return a.form.View()
	default:
		return "Unknown view"
	}
}

// Run starts the TUI application
func Run(service *core.Service, watcher *watch.Watcher) error {
	app := NewApp(service).WithWatcher(watcher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if watcher != nil {
		// failures are logged by the watcher; manual refresh keeps working
		go func() { _ = watcher.Run(ctx) }()
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
