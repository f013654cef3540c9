package views_test

import (
	"errors"
	"testing"
	"time"

	"github.com/DonovanMods/vs-launcher/internal/domain"
	"github.com/DonovanMods/vs-launcher/internal/tui"
	"github.com/DonovanMods/vs-launcher/internal/tui/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInstance() *domain.Instance {
	return &domain.Instance{
		FolderName:  "survival",
		Name:        "Survival",
		GameExePath: "/opt/vs/Vintagestory",
		Mods: []domain.ModInfo{
			{ArchiveName: "betterruins.zip", ModID: "betterruins", Name: "Better Ruins", Version: "0.4.1", Description: "Adds\truins"},
			{ArchiveName: "broken.zip", Err: domain.ErrModInfoMissing},
		},
	}
}

func newDetail(inst *domain.Instance, sessions []domain.PlaySession) views.InstanceDetail {
	return views.NewInstanceDetail(inst, "axe.png", sessions, tui.NewKeyMap("vim"), views.DarkTheme)
}

func TestInstanceDetail_View(t *testing.T) {
	start := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	model := newDetail(testInstance(), []domain.PlaySession{
		{StartedAt: start, EndedAt: start.Add(95 * time.Minute)},
	})

	view := model.View()
	assert.Contains(t, view, "Survival")
	assert.Contains(t, view, "/opt/vs/Vintagestory")
	assert.Contains(t, view, "betterruins.zip")
	assert.Contains(t, view, "Better Ruins")
	assert.Contains(t, view, "Adds    ruins")
	assert.Contains(t, view, "broken.zip")
	assert.Contains(t, view, views.ParseErrorLabel)
	assert.Contains(t, view, "1h35m")
}

func TestInstanceDetail_NoMods(t *testing.T) {
	model := newDetail(&domain.Instance{FolderName: "empty", Name: "Empty"}, nil)

	view := model.View()
	assert.Contains(t, view, "No mods in this instance")
	assert.Contains(t, view, "(not set)")
}

func TestInstanceDetail_NavigateAndRemove(t *testing.T) {
	model := newDetail(testInstance(), nil)

	newModel, _ := model.Update(key('j'))
	model = newModel.(views.InstanceDetail)
	assert.Equal(t, 1, model.Selected())
	assert.Equal(t, "broken.zip", model.SelectedMod().ArchiveName)
	assert.Contains(t, model.View(), domain.ErrModInfoMissing.Error())

	_, cmd := model.Update(key('d'))
	require.NotNil(t, cmd)
	assert.Equal(t, views.RemoveModMsg{Folder: "survival", ArchiveName: "broken.zip"}, cmd())
}

func TestInstanceDetail_Actions(t *testing.T) {
	model := newDetail(testInstance(), nil)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, views.BackMsg{}, cmd())

	_, cmd = model.Update(key('p'))
	require.NotNil(t, cmd)
	assert.Equal(t, views.LaunchInstanceMsg{Folder: "survival"}, cmd())

	_, cmd = model.Update(key('e'))
	require.NotNil(t, cmd)
	assert.Equal(t, views.EditInstanceMsg{Folder: "survival"}, cmd())
}

func TestInstanceDetail_WithSelectedClamps(t *testing.T) {
	model := newDetail(testInstance(), nil)

	assert.Equal(t, 1, model.WithSelected(10).Selected())
	assert.Equal(t, 0, model.WithSelected(-1).Selected())
	assert.Equal(t, 0, newDetail(&domain.Instance{FolderName: "x"}, nil).WithSelected(3).Selected())
}

func TestModColumns(t *testing.T) {
	ok := views.ModColumns(">", domain.ModInfo{ArchiveName: "a.zip", ModID: "a", Name: "A", Version: "1", Description: "d"})
	assert.Equal(t, []string{">", "a.zip", "A", "1", "a", "d"}, ok)

	failed := views.ModColumns(" ", domain.ModInfo{ArchiveName: "b.zip", Err: errors.New("bad")})
	assert.Equal(t, []string{" ", "b.zip", views.ParseErrorLabel, "", "", ""}, failed)
}

func TestNormalizeDescription(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"tabs", "a\tb", 0, "a    b"},
		{"newlines", "line one\r\nline two\nthree", 0, "line one line two three"},
		{"truncated", "abcdefghij", 8, "abcde..."},
		{"short enough", "abc", 8, "abc"},
		{"multibyte", "ééééééééé", 6, "ééé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, views.NormalizeDescription(tt.in, tt.limit))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", views.FormatDuration(45*time.Second))
	assert.Equal(t, "12m", views.FormatDuration(12*time.Minute+10*time.Second))
	assert.Equal(t, "1h35m", views.FormatDuration(95*time.Minute))
	assert.Equal(t, "0s", views.FormatDuration(0))
}
