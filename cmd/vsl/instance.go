package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/DonovanMods/vs-launcher/internal/core"
	"github.com/DonovanMods/vs-launcher/internal/domain"

	"github.com/spf13/cobra"
)

var (
	instanceIcon string
	instanceExe  string
	instanceName string
	instanceYes  bool
)

var instanceCmd = &cobra.Command{
	Use:     "instance",
	Aliases: []string{"inst", "i"},
	Short:   "Manage game instances",
	Long: `Create, inspect, edit and delete game instances.

Each instance lives in its own folder under <root>/instances and keeps its
mods in a Mods subfolder.`,
}

var instanceListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List instances",
	Args:    cobra.NoArgs,
	RunE:    runInstanceList,
}

var instanceShowCmd = &cobra.Command{
	Use:   "show <folder>",
	Short: "Show an instance and its mods",
	Args:  cobra.ExactArgs(1),
	RunE:  runInstanceShow,
}

var instanceNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create an instance",
	Long: `Create a new instance. The folder name is derived from the display name
and does not change when the instance is renamed later.

Examples:
  vsl instance new "Survival 1.19"
  vsl instance new Creative --icon pickaxe.png --exe ~/vintagestory/Vintagestory`,
	Args: cobra.ExactArgs(1),
	RunE: runInstanceNew,
}

var instanceEditCmd = &cobra.Command{
	Use:   "edit <folder>",
	Short: "Change an instance's name, icon or executable",
	Long: `Change the settings of an existing instance. Only the flags given are changed;
pass an empty value to clear the icon or executable.

Examples:
  vsl instance edit Survival --name "Survival (old)"
  vsl instance edit Survival --icon ""`,
	Args: cobra.ExactArgs(1),
	RunE: runInstanceEdit,
}

var instanceDeleteCmd = &cobra.Command{
	Use:     "delete <folder>",
	Aliases: []string{"rm"},
	Short:   "Delete an instance and all of its files",
	Args:    cobra.ExactArgs(1),
	RunE:    runInstanceDelete,
}

func init() {
	instanceNewCmd.Flags().StringVar(&instanceIcon, "icon", "", "icon file name from <root>/icons")
	instanceNewCmd.Flags().StringVar(&instanceExe, "exe", "", "path to the game executable")

	instanceEditCmd.Flags().StringVar(&instanceName, "name", "", "new display name")
	instanceEditCmd.Flags().StringVar(&instanceIcon, "icon", "", "icon file name from <root>/icons")
	instanceEditCmd.Flags().StringVar(&instanceExe, "exe", "", "path to the game executable")

	instanceDeleteCmd.Flags().BoolVarP(&instanceYes, "yes", "y", false, "skip confirmation prompt")

	instanceCmd.AddCommand(instanceListCmd, instanceShowCmd, instanceNewCmd, instanceEditCmd, instanceDeleteCmd)
	rootCmd.AddCommand(instanceCmd)
}

func runInstanceList(cmd *cobra.Command, args []string) error {
	service, cleanup, err := initService(false)
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer cleanup()

	instances, err := service.ListInstances()
	if err != nil {
		return fmt.Errorf("listing instances: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		list := make([]instanceJSON, 0, len(instances))
		for _, inst := range instances {
			list = append(list, toInstanceJSON(service, inst, false))
		}
		return printJSON(out, list)
	}

	if len(instances) == 0 {
		fmt.Fprintln(out, "No instances yet.")
		fmt.Fprintln(out, "\nUse 'vsl instance new <name>' to create one.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFOLDER\tMODS\tICON\tLAST PLAYED")
	fmt.Fprintln(w, "----\t------\t----\t----\t-----------")
	for _, inst := range instances {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			truncate(inst.Name, 40),
			inst.FolderName,
			inst.ModCount(),
			service.ResolveIcon(inst.Icon).Name,
			lastPlayed(service, inst.FolderName),
		)
	}
	w.Flush()

	if verbose {
		fmt.Fprintf(out, "\nRoot: %s\nTotal: %d instance(s)\n", service.RootDir(), len(instances))
	}
	return nil
}

func runInstanceShow(cmd *cobra.Command, args []string) error {
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
		return printJSON(out, toInstanceJSON(service, inst, true))
	}

	exe := inst.GameExePath
	if !inst.HasExecutable() {
		exe = colorYellow("(not set)")
	}

	fmt.Fprintf(out, "Name:        %s\n", inst.Name)
	fmt.Fprintf(out, "Folder:      %s\n", inst.FolderName)
	fmt.Fprintf(out, "Path:        %s\n", service.InstancePath(inst.FolderName))
	fmt.Fprintf(out, "Icon:        %s\n", iconLabel(service, inst.Icon))
	fmt.Fprintf(out, "Executable:  %s\n", exe)
	fmt.Fprintf(out, "Last played: %s\n", lastPlayed(service, inst.FolderName))
	fmt.Fprintf(out, "Mods:        %d\n", inst.ModCount())

	if inst.ModCount() > 0 {
		fmt.Fprintln(out)
		printMods(out, inst.Mods)
	}
	return nil
}

func runInstanceNew(cmd *cobra.Command, args []string) error {
	service, cleanup, err := initService(false)
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer cleanup()

	inst, err := service.CreateInstance(core.CreateOptions{
		Name:        args[0],
		Icon:        instanceIcon,
		GameExePath: instanceExe,
	})
	if err != nil {
		return fmt.Errorf("creating instance: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), toInstanceJSON(service, inst, false))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s in %s\n", colorGreen("✓"), inst.Name, service.InstancePath(inst.FolderName))
	return nil
}

func runInstanceEdit(cmd *cobra.Command, args []string) error {
	var opts core.EditOptions
	flags := cmd.Flags()
	if flags.Changed("name") {
		opts.Name = &instanceName
	}
	if flags.Changed("icon") {
		opts.Icon = &instanceIcon
	}
	if flags.Changed("exe") {
		opts.GameExePath = &instanceExe
	}
	if opts.Name == nil && opts.Icon == nil && opts.GameExePath == nil {
		return fmt.Errorf("nothing to change; use --name, --icon or --exe")
	}

	service, cleanup, err := initService(false)
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer cleanup()

	inst, err := service.EditInstance(args[0], opts)
	if err != nil {
		return fmt.Errorf("editing instance: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), toInstanceJSON(service, inst, false))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Updated %s\n", colorGreen("✓"), inst.Name)
	return nil
}

func runInstanceDelete(cmd *cobra.Command, args []string) error {
	service, cleanup, err := initService(false)
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer cleanup()

	// a malformed record can still be deleted; it just has no display name
	folder, name := args[0], args[0]
	inst, err := service.GetInstance(folder)
	switch {
	case err == nil:
		name = inst.Name
	case errors.Is(err, domain.ErrInstanceParse):
		if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", colorYellow("⚠"), err)
		}
	default:
		return err
	}

	if !instanceYes {
		prompt := fmt.Sprintf("Delete %s and everything in %s?", name, service.InstancePath(folder))
		if err := confirm(cmd, prompt); err != nil {
			return err
		}
	}

	if err := service.DeleteInstance(folder); err != nil {
		return fmt.Errorf("deleting instance: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted %s\n", colorGreen("✓"), name)
	return nil
}
