package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/DonovanMods/vs-launcher/internal/domain"
)

// LaunchContext describes the instance a game process is started for
type LaunchContext struct {
	InstanceDir string
	ModsDir     string
	Name        string
	Folder      string
}

func (lc LaunchContext) env() []string {
	return []string{
		"VSL_INSTANCE_DIR=" + lc.InstanceDir,
		"VSL_MODS_DIR=" + lc.ModsDir,
		"VSL_INSTANCE_NAME=" + lc.Name,
		"VSL_INSTANCE_FOLDER=" + lc.Folder,
	}
}

func (lc LaunchContext) expand(args []string) []string {
	r := strings.NewReplacer(
		"{instance_dir}", lc.InstanceDir,
		"{mods_dir}", lc.ModsDir,
		"{name}", lc.Name,
		"{folder}", lc.Folder,
	)
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = r.Replace(arg)
	}
	return out
}

// Launcher starts game executables and waits for them to exit
type Launcher struct {
	root    string
	args    []string
	timeout time.Duration
	log     zerolog.Logger

	// Stdout and Stderr receive the game's output; nil discards it
	Stdout io.Writer
	Stderr io.Writer
}

// NewLauncher creates a launcher. Relative executable paths resolve against
// root; args may contain {instance_dir}, {mods_dir}, {name} and {folder}.
// A zero timeout lets the game run until it exits.
func NewLauncher(root string, args []string, timeout time.Duration, log zerolog.Logger) *Launcher {
	return &Launcher{root: root, args: args, timeout: timeout, log: log}
}

// ResolveExecutable returns the absolute-or-root-relative path of exe and
// checks that it is an executable regular file.
func (l *Launcher) ResolveExecutable(exe string) (string, error) {
	exe = strings.TrimSpace(exe)
	if exe == "" {
		return "", domain.ErrNoExecutable
	}
	if !filepath.IsAbs(exe) {
		exe = filepath.Join(l.root, exe)
	}

	info, err := os.Stat(exe)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("game executable not found: %s", exe)
	}
	if err != nil {
		return "", fmt.Errorf("checking game executable: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("game executable is a directory: %s", exe)
	}
	if runtime.GOOS != "windows" && info.Mode()&0111 == 0 {
		return "", fmt.Errorf("game executable not executable: %s", exe)
	}
	return exe, nil
}

// Launch runs exe for the instance described by lc and blocks until it exits.
// Once the process has been attempted the returned session is non-nil, even
// when an error is returned alongside it.
func (l *Launcher) Launch(ctx context.Context, exe string, lc LaunchContext) (*domain.PlaySession, error) {
	path, err := l.ResolveExecutable(exe)
	if err != nil {
		return nil, err
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path, lc.expand(l.args)...)
	cmd.WaitDelay = 2 * time.Second
	cmd.Dir = filepath.Dir(path)
	cmd.Env = append(os.Environ(), lc.env()...)
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	session := &domain.PlaySession{
		InstanceFolder: lc.Folder,
		StartedAt:      time.Now(),
	}
	l.log.Info().Str("folder", lc.Folder).Str("exe", path).Strs("args", cmd.Args[1:]).Msg("launching game")

	err = cmd.Run()
	session.EndedAt = time.Now()

	if err != nil {
		err = l.runError(ctx, err, path, session)
		session.Error = err.Error()
		l.log.Warn().Err(err).Str("folder", lc.Folder).Int("exit_code", session.ExitCode).Msg("game exited with error")
		return session, err
	}

	l.log.Info().Str("folder", lc.Folder).Dur("duration", session.Duration()).Msg("game exited")
	return session, nil
}

func (l *Launcher) runError(ctx context.Context, err error, path string, session *domain.PlaySession) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		session.ExitCode = exitErr.ExitCode()
	} else {
		session.ExitCode = -1
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("game timed out after %v: %s", l.timeout, path)
	case errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("launch cancelled: %w", ctx.Err())
	case exitErr != nil:
		return fmt.Errorf("game failed with exit code %d: %s", session.ExitCode, path)
	}
	return fmt.Errorf("running game: %w", err)
}
