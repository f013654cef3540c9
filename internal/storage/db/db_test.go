package db_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/DonovanMods/vs-launcher/internal/domain"
	"github.com/DonovanMods/vs-launcher/internal/storage/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestNew_CreatesDatabase(t *testing.T) {
	database := newTestDB(t)
	assert.NotNil(t, database)
}

func TestNew_RunsMigrations(t *testing.T) {
	database := newTestDB(t)

	var count int
	err := database.QueryRow("SELECT COUNT(*) FROM play_sessions").Scan(&count)
	assert.NoError(t, err)
	assert.Zero(t, count)

	version, err := database.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestNew_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", db.FileName)

	first, err := db.New(path)
	require.NoError(t, err)
	require.NoError(t, first.SaveSession(&domain.PlaySession{
		InstanceFolder: "survival",
		StartedAt:      time.Now(),
		EndedAt:        time.Now(),
	}))
	require.NoError(t, first.Close())

	second, err := db.New(path)
	require.NoError(t, err)
	defer second.Close()

	version, err := second.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	sessions, err := second.ListSessions("survival", 0)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestSessions_SaveAndList(t *testing.T) {
	database := newTestDB(t)

	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	session := &domain.PlaySession{
		InstanceFolder: "survival",
		StartedAt:      start,
		EndedAt:        start.Add(95 * time.Minute),
		ExitCode:       3,
		Error:          "exit status 3",
	}
	require.NoError(t, database.SaveSession(session))
	assert.NotEmpty(t, session.ID)

	sessions, err := database.ListSessions("survival", 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	got := sessions[0]
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, "survival", got.InstanceFolder)
	assert.True(t, start.Equal(got.StartedAt), "started %v", got.StartedAt)
	assert.Equal(t, 95*time.Minute, got.Duration())
	assert.Equal(t, 3, got.ExitCode)
	assert.Equal(t, "exit status 3", got.Error)
	assert.False(t, got.Succeeded())
}

func TestSessions_SaveUpdatesExisting(t *testing.T) {
	database := newTestDB(t)

	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	session := &domain.PlaySession{ID: "fixed", InstanceFolder: "survival", StartedAt: start, EndedAt: start}
	require.NoError(t, database.SaveSession(session))

	session.EndedAt = start.Add(time.Hour)
	require.NoError(t, database.SaveSession(session))

	sessions, err := database.ListSessions("survival", 0)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, time.Hour, sessions[0].Duration())
}

func TestSessions_ListNewestFirstWithLimit(t *testing.T) {
	database := newTestDB(t)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		start := base.Add(time.Duration(i) * 24 * time.Hour)
		require.NoError(t, database.SaveSession(&domain.PlaySession{
			InstanceFolder: "survival",
			StartedAt:      start,
			EndedAt:        start.Add(time.Hour),
		}))
	}
	require.NoError(t, database.SaveSession(&domain.PlaySession{
		InstanceFolder: "creative",
		StartedAt:      base.Add(30 * 24 * time.Hour),
		EndedAt:        base.Add(30 * 24 * time.Hour),
	}))

	all, err := database.ListSessions("survival", 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].StartedAt.After(all[i].StartedAt))
	}

	limited, err := database.ListSessions("survival", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.True(t, base.Add(4*24*time.Hour).Equal(limited[0].StartedAt))

	none, err := database.ListSessions("unknown", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSessions_LastPlayed(t *testing.T) {
	database := newTestDB(t)

	_, found, err := database.LastPlayed("survival")
	require.NoError(t, err)
	assert.False(t, found)

	early := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)
	for _, start := range []time.Time{late, early} {
		require.NoError(t, database.SaveSession(&domain.PlaySession{
			InstanceFolder: "survival",
			StartedAt:      start,
			EndedAt:        start.Add(time.Minute),
		}))
	}

	last, found, err := database.LastPlayed("survival")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, late.Equal(last), "last played %v", last)
}

func TestSessions_Delete(t *testing.T) {
	database := newTestDB(t)

	now := time.Now()
	for _, folder := range []string{"survival", "survival", "creative"} {
		require.NoError(t, database.SaveSession(&domain.PlaySession{
			InstanceFolder: folder,
			StartedAt:      now,
			EndedAt:        now,
		}))
	}

	n, err := database.DeleteSessions("survival")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	sessions, err := database.ListSessions("survival", 0)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	sessions, err = database.ListSessions("creative", 0)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	n, err = database.DeleteSessions("survival")
	require.NoError(t, err)
	assert.Zero(t, n)
}
