package views_test

import (
	"testing"
	"time"

	"github.com/DonovanMods/vs-launcher/internal/domain"
	"github.com/DonovanMods/vs-launcher/internal/tui"
	"github.com/DonovanMods/vs-launcher/internal/tui/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRows() []views.InstanceRow {
	return []views.InstanceRow{
		{
			Instance:   &domain.Instance{FolderName: "survival", Name: "Survival", Mods: []domain.ModInfo{{ArchiveName: "a.zip"}}},
			Icon:       "axe.png",
			LastPlayed: time.Now().Add(-3 * time.Hour),
		},
		{
			Instance: &domain.Instance{FolderName: "creative", Name: "Creative", GameExePath: "/bin/vs"},
			Icon:     "default.png",
		},
	}
}

func newInstances(rows []views.InstanceRow) views.Instances {
	return views.NewInstances(rows, tui.NewKeyMap("vim"), views.DarkTheme)
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestInstances_InitialState(t *testing.T) {
	model := newInstances(testRows())

	assert.Equal(t, 0, model.Selected())
	assert.Equal(t, 2, model.Count())

	view := model.View()
	assert.Contains(t, view, "Survival")
	assert.Contains(t, view, "Creative")
	assert.Contains(t, view, "1 mod")
	assert.Contains(t, view, "axe.png")
	assert.Contains(t, view, "3 hours ago")
	assert.Contains(t, view, "No game executable set")
}

func TestInstances_NavigateAndWrap(t *testing.T) {
	model := newInstances(testRows())

	newModel, _ := model.Update(key('j'))
	assert.Equal(t, 1, newModel.(views.Instances).Selected())

	newModel, _ = newModel.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, newModel.(views.Instances).Selected())

	newModel, _ = newModel.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, newModel.(views.Instances).Selected())

	newModel, _ = newModel.Update(key('g'))
	assert.Equal(t, 0, newModel.(views.Instances).Selected())
}

func TestInstances_Actions(t *testing.T) {
	model := newInstances(testRows())

	tests := []struct {
		name string
		key  tea.KeyMsg
		want tea.Msg
	}{
		{"enter opens", tea.KeyMsg{Type: tea.KeyEnter}, views.OpenInstanceMsg{Folder: "survival"}},
		{"e edits", key('e'), views.EditInstanceMsg{Folder: "survival"}},
		{"p plays", key('p'), views.LaunchInstanceMsg{Folder: "survival"}},
		{"d deletes", key('d'), views.DeleteInstanceMsg{Folder: "survival", Name: "Survival"}},
		{"n creates", key('n'), views.NewInstanceMsg{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cmd := model.Update(tt.key)
			require.NotNil(t, cmd)
			assert.Equal(t, tt.want, cmd())
		})
	}
}

func TestInstances_EmptyList(t *testing.T) {
	model := newInstances(nil)

	assert.Contains(t, model.View(), "No instances yet")

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	_, cmd = model.Update(key('n'))
	require.NotNil(t, cmd)
	assert.Equal(t, views.NewInstanceMsg{}, cmd())
}

func TestInstances_WithRowsKeepsSelection(t *testing.T) {
	model := newInstances(testRows())
	newModel, _ := model.Update(key('j'))
	model = newModel.(views.Instances)
	require.Equal(t, "creative", model.SelectedRow().Instance.FolderName)

	rows := testRows()
	rows = append([]views.InstanceRow{{Instance: &domain.Instance{FolderName: "alpha", Name: "Alpha"}}}, rows...)
	model = model.WithRows(rows)
	assert.Equal(t, "creative", model.SelectedRow().Instance.FolderName)

	model = model.WithRows(rows[:1])
	assert.Equal(t, 0, model.Selected())
}
