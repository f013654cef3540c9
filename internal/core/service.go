package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/DonovanMods/vs-launcher/internal/domain"
	"github.com/DonovanMods/vs-launcher/internal/logging"
	"github.com/DonovanMods/vs-launcher/internal/storage/config"
	"github.com/DonovanMods/vs-launcher/internal/storage/db"
)

// ServiceConfig holds configuration for the core service
type ServiceConfig struct {
	RootDir   string // Launcher root holding instances/ and icons/; overrides root_dir from the config file
	ConfigDir string // Directory for configuration files
	DataDir   string // Directory for database and log file
	Logger    zerolog.Logger
}

// CreateOptions describes a new instance
type CreateOptions struct {
	Name        string
	Icon        string // Optional; must name a file in the icons directory
	GameExePath string // Optional
}

// EditOptions lists the fields to change; nil fields are left alone
type EditOptions struct {
	Name        *string
	Icon        *string
	GameExePath *string
}

// Service is the main orchestrator for instance management operations
type Service struct {
	config   *config.Config
	db       *db.DB
	store    *InstanceStore
	icons    *IconCatalog
	importer *ModImporter
	launcher *Launcher
	log      zerolog.Logger

	rootDir   string
	configDir string
	dataDir   string
}

// NewService creates a new core service instance
func NewService(cfg ServiceConfig) (*Service, error) {
	appConfig, err := config.Load(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	root := cfg.RootDir
	if root == "" {
		root = appConfig.RootDir
	}
	root, err = config.ResolveRootDir(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	database, err := db.New(filepath.Join(cfg.DataDir, db.FileName))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	log := cfg.Logger
	scanner := NewModScanner(logging.Component(log, "scanner"))

	log.Debug().Str("root", root).Str("config", cfg.ConfigDir).Str("data", cfg.DataDir).Msg("service ready")

	return &Service{
		config:    appConfig,
		db:        database,
		store:     NewInstanceStore(root, scanner, logging.Component(log, "store")),
		icons:     NewIconCatalog(root, logging.Component(log, "icons")),
		importer:  NewModImporter(scanner, logging.Component(log, "importer")),
		launcher:  NewLauncher(root, appConfig.LaunchArgs, appConfig.LaunchTimeout, logging.Component(log, "launcher")),
		log:       log,
		rootDir:   root,
		configDir: cfg.ConfigDir,
		dataDir:   cfg.DataDir,
	}, nil
}

// Close releases resources held by the service
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Config returns the loaded application configuration
func (s *Service) Config() *config.Config {
	return s.config
}

// RootDir returns the resolved launcher root
func (s *Service) RootDir() string {
	return s.rootDir
}

// ConfigDir returns the configuration directory
func (s *Service) ConfigDir() string {
	return s.configDir
}

// DataDir returns the data directory
func (s *Service) DataDir() string {
	return s.dataDir
}

// Logger returns the service logger
func (s *Service) Logger() zerolog.Logger {
	return s.log
}

// SetLaunchOutput routes the game's stdout and stderr; nil discards
func (s *Service) SetLaunchOutput(stdout, stderr io.Writer) {
	s.launcher.Stdout = stdout
	s.launcher.Stderr = stderr
}

// ListInstances loads every instance under the root
func (s *Service) ListInstances() ([]*domain.Instance, error) {
	return s.store.LoadAll()
}

// GetInstance loads a single instance by folder name
func (s *Service) GetInstance(folder string) (*domain.Instance, error) {
	return s.store.Load(folder)
}

// InstancePath returns the directory of the instance stored in folder
func (s *Service) InstancePath(folder string) string {
	return s.store.Path(folder)
}

// CreateInstance creates and persists a new instance
func (s *Service) CreateInstance(opts CreateOptions) (*domain.Instance, error) {
	inst, err := s.store.Create(opts.Name)
	if err != nil {
		return nil, err
	}
	if s.store.Exists(inst.FolderName) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInstanceExists, inst.FolderName)
	}
	if err := s.checkIcon(opts.Icon); err != nil {
		return nil, err
	}

	inst.Icon = opts.Icon
	inst.GameExePath = strings.TrimSpace(opts.GameExePath)

	if err := s.store.Persist(inst); err != nil {
		return nil, err
	}
	s.log.Info().Str("folder", inst.FolderName).Str("name", inst.Name).Msg("created instance")
	return inst, nil
}

// EditInstance updates an instance record. Renaming changes only the display
// name; the folder stays where it is.
func (s *Service) EditInstance(folder string, opts EditOptions) (*domain.Instance, error) {
	inst, err := s.store.Load(folder)
	if err != nil {
		return nil, err
	}

	if opts.Name != nil {
		name := strings.TrimSpace(*opts.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidName)
		}
		inst.Name = name
	}
	if opts.Icon != nil {
		if err := s.checkIcon(*opts.Icon); err != nil {
			return nil, err
		}
		inst.Icon = *opts.Icon
	}
	if opts.GameExePath != nil {
		inst.GameExePath = strings.TrimSpace(*opts.GameExePath)
	}

	if err := s.store.Persist(inst); err != nil {
		return nil, err
	}
	s.log.Info().Str("folder", folder).Msg("updated instance")
	return inst, nil
}

// DeleteInstance removes the instance directory and its play history
func (s *Service) DeleteInstance(folder string) error {
	if err := s.store.Delete(folder); err != nil {
		return err
	}
	if _, err := s.db.DeleteSessions(folder); err != nil {
		return fmt.Errorf("instance deleted but history remains: %w", err)
	}
	return nil
}

func (s *Service) checkIcon(name string) error {
	if name != "" && !s.icons.Has(name) {
		return fmt.Errorf("%w: %s", domain.ErrIconNotFound, name)
	}
	return nil
}

// ListIcons returns the names of the available icons
func (s *Service) ListIcons() ([]string, error) {
	return s.icons.List()
}

// ResolveIcon returns the icon to show for name, falling back to the default
func (s *Service) ResolveIcon(name string) IconHandle {
	return s.icons.Resolve(name)
}

// AddMod copies an archive into the instance's Mods directory
func (s *Service) AddMod(folder, archivePath string) (domain.ModInfo, error) {
	if !s.store.Exists(folder) {
		return domain.ModInfo{}, fmt.Errorf("%w: %s", domain.ErrInstanceNotFound, folder)
	}
	return s.importer.Import(archivePath, s.store.ModsPath(folder))
}

// RemoveMod deletes an archive from the instance's Mods directory
func (s *Service) RemoveMod(folder, archiveName string) error {
	if !s.store.Exists(folder) {
		return fmt.Errorf("%w: %s", domain.ErrInstanceNotFound, folder)
	}
	return s.importer.Remove(s.store.ModsPath(folder), archiveName)
}

// Launch runs the instance's game executable until it exits and records the
// play session. The session is returned whenever the game was started.
func (s *Service) Launch(ctx context.Context, folder string) (*domain.PlaySession, error) {
	inst, err := s.store.Load(folder)
	if err != nil {
		return nil, err
	}

	session, runErr := s.launcher.Launch(ctx, inst.GameExePath, LaunchContext{
		InstanceDir: s.store.Path(folder),
		ModsDir:     s.store.ModsPath(folder),
		Name:        inst.Name,
		Folder:      folder,
	})
	if session == nil {
		return nil, runErr
	}

	if err := s.db.SaveSession(session); err != nil {
		s.log.Error().Err(err).Str("folder", folder).Msg("failed recording play session")
		return session, errors.Join(runErr, err)
	}
	return session, runErr
}

// Sessions returns the play history of an instance, newest first
func (s *Service) Sessions(folder string, limit int) ([]domain.PlaySession, error) {
	return s.db.ListSessions(folder, limit)
}

// LastPlayed returns when the instance was last started
func (s *Service) LastPlayed(folder string) (time.Time, bool, error) {
	return s.db.LastPlayed(folder)
}

// WatchDirs returns the directories whose changes affect listed state:
// the instances directory, every instance and Mods directory, and the icons
// directory. Only existing directories are returned.
func (s *Service) WatchDirs() []string {
	dirs := []string{s.store.Root(), s.icons.Dir()}

	entries, err := os.ReadDir(s.store.Root())
	if err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dirs = append(dirs, s.store.Path(entry.Name()), s.store.ModsPath(entry.Name()))
		}
	}

	existing := dirs[:0]
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			existing = append(existing, dir)
		}
	}
	return existing
}
