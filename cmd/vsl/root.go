package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DonovanMods/vs-launcher/internal/core"
	"github.com/DonovanMods/vs-launcher/internal/logging"
	"github.com/DonovanMods/vs-launcher/internal/storage/config"
	"github.com/DonovanMods/vs-launcher/internal/tui"
	"github.com/DonovanMods/vs-launcher/internal/watch"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user declines a prompt.
// When returned from a command, Execute exits with code 2.
var ErrCancelled = errors.New("cancelled")

var (
	version = "0.3.0"

	// Global flags
	rootDir    string
	configDir  string
	dataDir    string
	verbose    bool
	jsonOutput bool
	noColor    bool
	watchDirs  bool
)

// rootCmd starts the TUI when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vsl",
	Short: "Vintage Story Launcher - manage game instances and their mods",
	Long: `vsl keeps separate Vintage Story instances, each with its own Mods folder,
icon and game executable, and launches them.

Run without a subcommand to open the interactive launcher.`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true, // Runtime errors should not print usage
	SilenceErrors: true, // We handle error output in Execute()
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "launcher root holding instances/ and icons/ (default: root_dir from config, else the current directory)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: ~/.config/vsl)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default: ~/.local/share/vsl)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format (list, show, history)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.Flags().BoolVar(&watchDirs, "watch", false, "refresh the launcher when instance folders change (default: watch from config)")
}

// colorEnabled reports whether colored output should be used (respects --no-color and NO_COLOR env).
func colorEnabled() bool {
	if noColor {
		return false
	}
	return os.Getenv("NO_COLOR") == ""
}

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
)

func colorize(code, s string) string {
	if !colorEnabled() {
		return s
	}
	return code + s + ansiReset
}

func colorGreen(s string) string  { return colorize(ansiGreen, s) }
func colorRed(s string) string    { return colorize(ansiRed, s) }
func colorYellow(s string) string { return colorize(ansiYellow, s) }

// Execute runs the root command. Exit codes: 0 = success, 1 = error, 2 = user cancelled.
// When --json is set and an error occurs, prints {"error":"..."} to stdout before exiting.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ErrCancelled) {
			os.Exit(2)
		}
		if jsonOutput {
			fmt.Printf(`{"error":%q}`+"\n", err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "%s %v\n", colorRed("Error:"), err)
		}
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the interactive launcher needs a terminal; see 'vsl --help' for subcommands")
	}

	service, cleanup, err := initService(true)
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer cleanup()

	var watcher *watch.Watcher
	if watchDirs || service.Config().Watch {
		watcher = watch.New(service.WatchDirs, watch.DefaultDebounce, logging.Component(service.Logger(), "watch"))
	}

	return tui.Run(service, watcher)
}

// initService creates the core service and its logger. The returned cleanup
// closes both. In TUI mode logs go to the log file only; otherwise --verbose
// also prints them to stderr.
func initService(forTUI bool) (*core.Service, func(), error) {
	cfg, err := getServiceConfig()
	if err != nil {
		return nil, nil, err
	}

	// Ensure directories exist
	if err := os.MkdirAll(cfg.ConfigDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating data dir: %w", err)
	}

	appConfig, err := config.Load(cfg.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	opts := logging.Options{
		Level:   appConfig.LogLevel,
		NoColor: !colorEnabled(),
		Dir:     cfg.DataDir,
	}
	if verbose {
		opts.Level = "debug"
		if !forTUI {
			opts.Console = os.Stderr
		}
	}
	logger, err := logging.New(opts)
	if err != nil {
		return nil, nil, err
	}
	cfg.Logger = logger.Logger

	svc, err := core.NewService(cfg)
	if err != nil {
		logger.Close()
		return nil, nil, err
	}
	if !forTUI {
		svc.SetLaunchOutput(os.Stdout, os.Stderr)
	}

	cleanup := func() {
		svc.Close()
		logger.Close()
	}
	return svc, cleanup, nil
}

// getServiceConfig returns the service configuration with defaults.
// Returns an error if UserHomeDir fails and defaults are needed.
func getServiceConfig() (core.ServiceConfig, error) {
	cfg := core.ServiceConfig{
		RootDir:   rootDir,
		ConfigDir: configDir,
		DataDir:   dataDir,
	}
	if cfg.ConfigDir != "" && cfg.DataDir != "" {
		return cfg, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return core.ServiceConfig{}, fmt.Errorf("home directory: %w", err)
	}
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = filepath.Join(homeDir, ".config", "vsl")
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(homeDir, ".local", "share", "vsl")
	}
	return cfg, nil
}
