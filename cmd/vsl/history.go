package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/DonovanMods/vs-launcher/internal/tui/views"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <folder>",
	Short: "Show the play history of an instance",
	Long: `Show recorded game sessions of an instance, newest first.

Examples:
  vsl history Survival
  vsl history Survival --limit 0`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of sessions to show (0 for all)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	service, cleanup, err := initService(false)
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer cleanup()

	folder := args[0]
	sessions, err := service.Sessions(folder, historyLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		list := make([]sessionJSON, 0, len(sessions))
		for _, s := range sessions {
			list = append(list, toSessionJSON(s))
		}
		return printJSON(out, list)
	}

	if len(sessions) == 0 {
		fmt.Fprintf(out, "%s has not been played yet.\n", folder)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tWHEN\tDURATION\tRESULT")
	fmt.Fprintln(w, "-------\t----\t--------\t------")
	for _, s := range sessions {
		result := "ok"
		switch {
		case s.Error != "":
			result = truncate(s.Error, 50)
		case s.ExitCode != 0:
			result = fmt.Sprintf("exit code %d", s.ExitCode)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			humanize.Time(s.StartedAt),
			views.FormatDuration(s.Duration()),
			result,
		)
	}
	w.Flush()
	return nil
}
