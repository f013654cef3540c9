package tui_test

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/DonovanMods/vs-launcher/internal/core"
	"github.com/DonovanMods/vs-launcher/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*core.Service, string) {
	t.Helper()
	configDir := t.TempDir()
	svc, err := core.NewService(core.ServiceConfig{
		RootDir:   t.TempDir(),
		ConfigDir: configDir,
		DataDir:   t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc, configDir
}

// send delivers msg and runs every resulting command to completion.
// Cursor blink ticks from text inputs are dropped so the loop ends.
func send(t *testing.T, app tui.App, msg tea.Msg) tui.App {
	t.Helper()
	model, cmd := app.Update(msg)
	app = model.(tui.App)
	return drain(t, app, cmd, 0)
}

func drain(t *testing.T, app tui.App, cmd tea.Cmd, depth int) tui.App {
	t.Helper()
	if cmd == nil || depth > 10 {
		return app
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			app = drain(t, app, c, depth+1)
		}
		return app
	}
	if msg == nil || strings.Contains(fmt.Sprintf("%T", msg), "cursor.") {
		return app
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		return app
	}
	model, next := app.Update(msg)
	return drain(t, model.(tui.App), next, depth+1)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// typeText feeds keys without running the cursor blink commands they return
func typeText(t *testing.T, app tui.App, text string) tui.App {
	t.Helper()
	for _, r := range text {
		model, _ := app.Update(runeKey(r))
		app = model.(tui.App)
	}
	return app
}

func TestNewApp_InitialState(t *testing.T) {
	app := tui.NewApp(nil)

	assert.Equal(t, tui.ViewInstances, app.CurrentView())
	assert.Contains(t, app.View(), "No instances yet")
}

func TestApp_NavigateToView(t *testing.T) {
	app := tui.NewApp(nil)

	newApp, _ := app.Update(tui.NavigateMsg{View: tui.ViewInstance})
	assert.Equal(t, tui.ViewInstance, newApp.(tui.App).CurrentView())
}

func TestApp_QuitOnQ(t *testing.T) {
	app := tui.NewApp(nil)

	_, cmd := app.Update(runeKey('q'))
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestApp_ErrorShown(t *testing.T) {
	app := tui.NewApp(nil)

	newApp, _ := app.Update(tui.ErrorMsg{Err: fmt.Errorf("disk on fire")})
	assert.Contains(t, newApp.(tui.App).View(), "disk on fire")
}

func TestApp_LoadsInstances(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateInstance(core.CreateOptions{Name: "Alpha"})
	require.NoError(t, err)
	_, err = svc.CreateInstance(core.CreateOptions{Name: "Beta"})
	require.NoError(t, err)

	app := drain(t, tui.NewApp(svc), tui.NewApp(svc).Init(), 0)

	assert.Equal(t, 2, app.Instances().Count())
	view := app.View()
	assert.Contains(t, view, "Alpha")
	assert.Contains(t, view, "Beta")
	assert.Contains(t, view, "never")
}

func TestApp_OpenDetailAndBack(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateInstance(core.CreateOptions{Name: "Alpha"})
	require.NoError(t, err)

	app := send(t, tui.NewApp(svc), runeKey('r'))
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, tui.ViewInstance, app.CurrentView())
	assert.Equal(t, "Alpha", app.Detail().Folder())
	assert.Contains(t, app.View(), "No mods in this instance")

	app = send(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, tui.ViewInstances, app.CurrentView())
}

func TestApp_CreateThroughForm(t *testing.T) {
	svc, _ := newTestService(t)

	app := send(t, tui.NewApp(svc), runeKey('n'))
	require.Equal(t, tui.ViewForm, app.CurrentView())

	// q and r are typed into the form, not handled globally
	app = typeText(t, app, "quarry")
	require.Equal(t, tui.ViewForm, app.CurrentView())

	app = send(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, tui.ViewInstances, app.CurrentView())
	assert.Equal(t, 1, app.Instances().Count())
	assert.Contains(t, app.Status(), "quarry")

	inst, err := svc.GetInstance("quarry")
	require.NoError(t, err)
	assert.Equal(t, "quarry", inst.Name)
}

func TestApp_CreateDuplicateKeepsForm(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateInstance(core.CreateOptions{Name: "Taken"})
	require.NoError(t, err)

	app := send(t, tui.NewApp(svc), runeKey('n'))
	app = typeText(t, app, "Taken")
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, tui.ViewForm, app.CurrentView())
	assert.Contains(t, app.View(), "already exists")

	app = send(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, tui.ViewInstances, app.CurrentView())
}

func TestApp_EditKeepsMissingIcon(t *testing.T) {
	svc, _ := newTestService(t)
	icon := filepath.Join(svc.RootDir(), core.IconsDir, "axe.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(icon), 0755))
	require.NoError(t, os.WriteFile(icon, []byte("png"), 0644))
	_, err := svc.CreateInstance(core.CreateOptions{Name: "Axes", Icon: "axe.png"})
	require.NoError(t, err)
	require.NoError(t, os.Remove(icon))

	app := send(t, tui.NewApp(svc), runeKey('r'))
	app = send(t, app, runeKey('e'))
	require.Equal(t, tui.ViewForm, app.CurrentView())
	assert.Equal(t, "axe.png", app.Form().Icon())

	app = typeText(t, app, " II")
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NoError(t, app.Err())
	assert.Equal(t, tui.ViewInstances, app.CurrentView())

	inst, err := svc.GetInstance("Axes")
	require.NoError(t, err)
	assert.Equal(t, "Axes II", inst.Name)
	assert.Equal(t, "axe.png", inst.Icon)
}

func TestApp_DeleteNeedsConfirmation(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateInstance(core.CreateOptions{Name: "Doomed"})
	require.NoError(t, err)

	app := send(t, tui.NewApp(svc), runeKey('r'))

	app = send(t, app, runeKey('d'))
	require.True(t, app.Confirming())
	assert.Contains(t, app.View(), "Delete \"Doomed\"")

	app = send(t, app, runeKey('n'))
	assert.False(t, app.Confirming())
	_, err = svc.GetInstance("Doomed")
	require.NoError(t, err)

	app = send(t, app, runeKey('d'))
	app = send(t, app, runeKey('y'))
	assert.Zero(t, app.Instances().Count())
	_, err = svc.GetInstance("Doomed")
	assert.Error(t, err)
}

func TestApp_ToggleThemePersists(t *testing.T) {
	svc, configDir := newTestService(t)

	app := tui.NewApp(svc)
	require.Equal(t, "dark", app.Theme().Name)

	app = send(t, app, runeKey('t'))
	assert.Equal(t, "light", app.Theme().Name)
	require.NoError(t, app.Err())

	data, err := os.ReadFile(filepath.Join(configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "theme: light")

	app = send(t, app, runeKey('t'))
	assert.Equal(t, "dark", app.Theme().Name)
}

func TestApp_HelpOverlay(t *testing.T) {
	app := send(t, tui.NewApp(nil), runeKey('?'))
	assert.Contains(t, app.View(), "Toggle dark/light")

	app = send(t, app, runeKey('x'))
	assert.NotContains(t, app.View(), "Toggle dark/light")
}

func TestApp_LaunchRecordsSession(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	svc, _ := newTestService(t)
	exe := filepath.Join(t.TempDir(), "game.sh")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\nexit 0\n"), 0755))
	_, err := svc.CreateInstance(core.CreateOptions{Name: "Playable", GameExePath: exe})
	require.NoError(t, err)

	app := send(t, tui.NewApp(svc), runeKey('r'))
	app = send(t, app, runeKey('p'))

	assert.Contains(t, app.Status(), "exited after")
	sessions, err := svc.Sessions("Playable", 0)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}
