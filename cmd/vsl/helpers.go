package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/DonovanMods/vs-launcher/internal/core"
	"github.com/DonovanMods/vs-launcher/internal/domain"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errNotInteractive is returned when a prompt is needed but stdin is not a terminal
var errNotInteractive = errors.New("stdin is not a terminal; pass --yes to confirm")

// truncate shortens s to maxLen runes, marking the cut with "..."
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// confirm asks a y/N question on the command's output and reads the answer
// from its input. Declining returns ErrCancelled.
func confirm(cmd *cobra.Command, prompt string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errNotInteractive
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading answer: %w", err)
	}

	switch strings.TrimSpace(response) {
	case "y", "Y", "yes":
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
	return ErrCancelled
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

type instanceJSON struct {
	Folder      string     `json:"folder"`
	Name        string     `json:"name"`
	Icon        string     `json:"icon"`
	GameExePath string     `json:"game_exe_path,omitempty"`
	Path        string     `json:"path"`
	ModCount    int        `json:"mod_count"`
	LastPlayed  *time.Time `json:"last_played,omitempty"`
	Mods        []modJSON  `json:"mods,omitempty"`
}

type modJSON struct {
	Archive     string `json:"archive"`
	ModID       string `json:"modid,omitempty"`
	Name        string `json:"name,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	Size        int64  `json:"size"`
	Error       string `json:"error,omitempty"`
}

type sessionJSON struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Seconds   int64     `json:"duration_seconds"`
	ExitCode  int       `json:"exit_code"`
	Error     string    `json:"error,omitempty"`
}

func toInstanceJSON(svc *core.Service, inst *domain.Instance, withMods bool) instanceJSON {
	out := instanceJSON{
		Folder:      inst.FolderName,
		Name:        inst.Name,
		Icon:        svc.ResolveIcon(inst.Icon).Name,
		GameExePath: inst.GameExePath,
		Path:        svc.InstancePath(inst.FolderName),
		ModCount:    inst.ModCount(),
	}
	if last, ok, err := svc.LastPlayed(inst.FolderName); err == nil && ok {
		out.LastPlayed = &last
	}
	if withMods {
		out.Mods = make([]modJSON, 0, len(inst.Mods))
		for _, mod := range inst.Mods {
			out.Mods = append(out.Mods, toModJSON(mod))
		}
	}
	return out
}

func toModJSON(mod domain.ModInfo) modJSON {
	out := modJSON{
		Archive:     mod.ArchiveName,
		ModID:       mod.ModID,
		Name:        mod.Name,
		Version:     mod.Version,
		Description: mod.Description,
		Size:        mod.Size,
	}
	if mod.Err != nil {
		out.Error = mod.Err.Error()
	}
	return out
}

func toSessionJSON(s domain.PlaySession) sessionJSON {
	return sessionJSON{
		ID:        s.ID,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		Seconds:   int64(s.Duration().Seconds()),
		ExitCode:  s.ExitCode,
		Error:     s.Error,
	}
}

// lastPlayed renders the last play time of folder relative to now
func lastPlayed(svc *core.Service, folder string) string {
	last, ok, err := svc.LastPlayed(folder)
	if err != nil || !ok {
		return "never"
	}
	return humanize.Time(last)
}

// iconLabel names the icon an instance will show
func iconLabel(svc *core.Service, name string) string {
	h := svc.ResolveIcon(name)
	if !h.Default {
		return h.Name
	}
	if name != "" {
		return colorYellow(name+" (missing)") + " -> " + h.Name
	}
	return h.Name + " (built-in)"
}
