package core_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/DonovanMods/vs-launcher/internal/core"
	"github.com/DonovanMods/vs-launcher/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func testLaunchContext() core.LaunchContext {
	return core.LaunchContext{
		InstanceDir: "/games/instances/survival",
		ModsDir:     "/games/instances/survival/Mods",
		Name:        "Survival World",
		Folder:      "survival",
	}
}

func TestLauncher_Success(t *testing.T) {
	dir := t.TempDir()
	exe := writeScript(t, dir, "game.sh", `echo "args:$*"
echo "dir:$(pwd -P)"
echo "env:$VSL_INSTANCE_FOLDER|$VSL_INSTANCE_NAME|$VSL_MODS_DIR|$VSL_INSTANCE_DIR"
echo "warning" >&2
`)

	var stdout, stderr bytes.Buffer
	launcher := core.NewLauncher(dir, []string{"--dataPath", "{instance_dir}", "--addModPath={mods_dir}"}, 0, zerolog.Nop())
	launcher.Stdout = &stdout
	launcher.Stderr = &stderr

	session, err := launcher.Launch(context.Background(), exe, testLaunchContext())
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.Equal(t, "survival", session.InstanceFolder)
	assert.Equal(t, 0, session.ExitCode)
	assert.Empty(t, session.Error)
	assert.True(t, session.Succeeded())
	assert.False(t, session.EndedAt.Before(session.StartedAt))

	out := stdout.String()
	assert.Contains(t, out, "args:--dataPath /games/instances/survival --addModPath=/games/instances/survival/Mods")
	resolvedDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Contains(t, out, "dir:"+resolvedDir)
	assert.Contains(t, out, "env:survival|Survival World|/games/instances/survival/Mods|/games/instances/survival")
	assert.Contains(t, stderr.String(), "warning")
}

func TestLauncher_RelativePathResolvesAgainstRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "game"), 0755))
	writeScript(t, filepath.Join(root, "game"), "run.sh", "exit 0\n")

	launcher := core.NewLauncher(root, nil, 0, zerolog.Nop())

	path, err := launcher.ResolveExecutable(filepath.Join("game", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "game", "run.sh"), path)

	session, err := launcher.Launch(context.Background(), filepath.Join("game", "run.sh"), testLaunchContext())
	require.NoError(t, err)
	assert.True(t, session.Succeeded())
}

func TestLauncher_NonZeroExit(t *testing.T) {
	dir := t.TempDir()
	exe := writeScript(t, dir, "crash.sh", "exit 42\n")

	launcher := core.NewLauncher(dir, nil, 0, zerolog.Nop())
	session, err := launcher.Launch(context.Background(), exe, testLaunchContext())
	require.Error(t, err)
	require.NotNil(t, session)

	assert.Equal(t, 42, session.ExitCode)
	assert.Contains(t, session.Error, "exit code 42")
	assert.False(t, session.Succeeded())
}

func TestLauncher_Timeout(t *testing.T) {
	dir := t.TempDir()
	exe := writeScript(t, dir, "slow.sh", "sleep 10\n")

	launcher := core.NewLauncher(dir, nil, 100*time.Millisecond, zerolog.Nop())
	start := time.Now()
	session, err := launcher.Launch(context.Background(), exe, testLaunchContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	require.NotNil(t, session)
	assert.NotEmpty(t, session.Error)
	assert.Less(t, time.Since(start), 8*time.Second)
}

func TestLauncher_Cancelled(t *testing.T) {
	dir := t.TempDir()
	exe := writeScript(t, dir, "slow.sh", "sleep 10\n")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	launcher := core.NewLauncher(dir, nil, 0, zerolog.Nop())
	session, err := launcher.Launch(ctx, exe, testLaunchContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
	require.NotNil(t, session)
}

func TestLauncher_ResolveErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.txt"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "folder"), 0755))

	launcher := core.NewLauncher(dir, nil, 0, zerolog.Nop())

	tests := []struct {
		name   string
		exe    string
		errMsg string
	}{
		{"unset", "", "no game executable"},
		{"blank", "   ", "no game executable"},
		{"missing", "missing-game", "not found"},
		{"directory", "folder", "is a directory"},
	}
	if runtime.GOOS != "windows" {
		tests = append(tests, struct {
			name   string
			exe    string
			errMsg string
		}{"not executable", "data.txt", "not executable"})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := launcher.Launch(context.Background(), tt.exe, testLaunchContext())
			require.Error(t, err)
			assert.Nil(t, session)
			assert.True(t, strings.Contains(err.Error(), tt.errMsg), "error %q", err)
		})
	}

	_, err := launcher.ResolveExecutable("")
	assert.ErrorIs(t, err, domain.ErrNoExecutable)
}
