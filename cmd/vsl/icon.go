package main

import (
	"fmt"

	"github.com/DonovanMods/vs-launcher/internal/assets"

	"github.com/spf13/cobra"
)

var iconCmd = &cobra.Command{
	Use:   "icon",
	Short: "Inspect the shared icons folder",
}

var iconListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the icons instances can use",
	Long: `List the image files in <root>/icons. Instances without an icon, or whose
icon file is gone, show the built-in default.`,
	Args: cobra.NoArgs,
	RunE: runIconList,
}

func init() {
	iconCmd.AddCommand(iconListCmd)
	rootCmd.AddCommand(iconCmd)
}

func runIconList(cmd *cobra.Command, args []string) error {
	service, cleanup, err := initService(false)
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer cleanup()

	names, err := service.ListIcons()
	if err != nil {
		return fmt.Errorf("listing icons: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, names)
	}

	if len(names) == 0 {
		fmt.Fprintf(out, "No icons found; instances use the built-in %s.\n", assets.DefaultIconName)
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
