package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/DonovanMods/vs-launcher/internal/domain"
	"github.com/DonovanMods/vs-launcher/internal/tui/views"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var modYes bool

var modCmd = &cobra.Command{
	Use:   "mod",
	Short: "Manage the mod archives of an instance",
	Long: `List, add and remove the zip archives in an instance's Mods folder.

Examples:
  vsl mod list Survival
  vsl mod add Survival ~/Downloads/betterruins_0.4.1.zip
  vsl mod remove Survival betterruins_0.4.1.zip`,
}

var modListCmd = &cobra.Command{
	Use:     "list <folder>",
	Aliases: []string{"ls"},
	Short:   "List the mods of an instance",
	Args:    cobra.ExactArgs(1),
	RunE:    runModList,
}

var modAddCmd = &cobra.Command{
	Use:   "add <folder> <archive>",
	Short: "Copy a mod archive into an instance",
	Args:  cobra.ExactArgs(2),
	RunE:  runModAdd,
}

var modRemoveCmd = &cobra.Command{
	Use:     "remove <folder> <archive-name>",
	Aliases: []string{"rm"},
	Short:   "Delete a mod archive from an instance",
	Args:    cobra.ExactArgs(2),
	RunE:    runModRemove,
}

func init() {
	modRemoveCmd.Flags().BoolVarP(&modYes, "yes", "y", false, "skip confirmation prompt")

	modCmd.AddCommand(modListCmd, modAddCmd, modRemoveCmd)
	rootCmd.AddCommand(modCmd)
}

func runModList(cmd *cobra.Command, args []string) error {
	service, cleanup, err := initService(false)
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer cleanup()

	inst, err := service.GetInstance(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		list := make([]modJSON, 0, len(inst.Mods))
		for _, mod := range inst.Mods {
			list = append(list, toModJSON(mod))
		}
		return printJSON(out, list)
	}

	if inst.ModCount() == 0 {
		fmt.Fprintf(out, "No mods in %s.\n", inst.Name)
		return nil
	}

	printMods(out, inst.Mods)

	if verbose {
		fmt.Fprintf(out, "\nTotal: %d mod(s)\n", inst.ModCount())
	}
	return nil
}

// printMods writes a mod table; archives whose metadata could not be read
// show the parse error label in place of their name.
func printMods(out io.Writer, mods []domain.ModInfo) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ARCHIVE\tNAME\tVERSION\tMODID\tSIZE")
	fmt.Fprintln(w, "-------\t----\t-------\t-----\t----")
	for _, mod := range mods {
		name := truncate(mod.Name, 40)
		if !mod.OK() {
			name = colorRed(views.ParseErrorLabel)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncate(mod.ArchiveName, 40),
			name,
			mod.Version,
			mod.ModID,
			humanize.Bytes(uint64(mod.Size)),
		)
	}
	w.Flush()

	if verbose {
		for _, mod := range mods {
			if mod.Err != nil {
				fmt.Fprintf(out, "  %s %s: %v\n", colorYellow("⚠"), mod.ArchiveName, mod.Err)
			}
		}
	}
}

func runModAdd(cmd *cobra.Command, args []string) error {
	service, cleanup, err := initService(false)
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer cleanup()

	mod, err := service.AddMod(args[0], args[1])
	if err != nil {
		return fmt.Errorf("adding mod: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), toModJSON(mod))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Added %s\n", colorGreen("✓"), mod.ArchiveName)
	if !mod.OK() {
		fmt.Fprintf(out, "  %s %v\n", colorYellow("⚠"), mod.Err)
	}
	return nil
}

func runModRemove(cmd *cobra.Command, args []string) error {
	service, cleanup, err := initService(false)
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer cleanup()

	folder, archive := args[0], args[1]
	if !modYes {
		if err := confirm(cmd, fmt.Sprintf("Delete %s from %s?", archive, folder)); err != nil {
			return err
		}
	}

	if err := service.RemoveMod(folder, archive); err != nil {
		return fmt.Errorf("removing mod: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %s\n", colorGreen("✓"), archive)
	return nil
}
