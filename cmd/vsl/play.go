package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/DonovanMods/vs-launcher/internal/tui/views"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:     "play <folder>",
	Aliases: []string{"launch", "run"},
	Short:   "Start the game for an instance",
	Long: `Start the instance's game executable and wait for it to exit.

The game runs from its own directory with VSL_INSTANCE_DIR, VSL_MODS_DIR,
VSL_INSTANCE_NAME and VSL_INSTANCE_FOLDER set. Each run is recorded in the
play history.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	service, cleanup, err := initService(false)
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	if !jsonOutput {
		fmt.Fprintf(out, "Launching %s...\n", args[0])
	}

	session, err := service.Launch(ctx, args[0])
	if session == nil {
		return err
	}

	if jsonOutput {
		if jerr := printJSON(out, toSessionJSON(*session)); jerr != nil {
			return jerr
		}
		return err
	}

	status := colorGreen("ok")
	if !session.Succeeded() {
		status = colorRed(fmt.Sprintf("exit code %d", session.ExitCode))
	}
	fmt.Fprintf(out, "%s exited after %s (%s)\n", args[0], views.FormatDuration(session.Duration()), status)
	return err
}
