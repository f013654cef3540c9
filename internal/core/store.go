package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flytam/filenamify"
	"github.com/rs/zerolog"

	"github.com/DonovanMods/vs-launcher/internal/domain"
	"github.com/DonovanMods/vs-launcher/internal/storage/config"
)

const (
	// InstancesDir holds one subdirectory per instance under the root
	InstancesDir = "instances"
	// ModsDir holds an instance's mod archives
	ModsDir = "Mods"

	folderReplacement = "_"
	folderMaxLength   = 100
)

// InstanceStore reads and writes instance records below a root directory
type InstanceStore struct {
	root    string
	scanner *ModScanner
	log     zerolog.Logger
}

// NewInstanceStore creates a store rooted at root
func NewInstanceStore(root string, scanner *ModScanner, log zerolog.Logger) *InstanceStore {
	return &InstanceStore{root: root, scanner: scanner, log: log}
}

// Root returns the instances directory
func (s *InstanceStore) Root() string {
	return filepath.Join(s.root, InstancesDir)
}

// Path returns the directory of the instance stored in folder
func (s *InstanceStore) Path(folder string) string {
	return filepath.Join(s.root, InstancesDir, folder)
}

// ModsPath returns the Mods directory of the instance stored in folder
func (s *InstanceStore) ModsPath(folder string) string {
	return filepath.Join(s.Path(folder), ModsDir)
}

// Create returns a new, unsaved instance named name.
// The folder name is derived from the display name and never changes afterwards.
func (s *InstanceStore) Create(name string) (*domain.Instance, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidName)
	}

	folder, err := SanitizeFolderName(name)
	if err != nil {
		return nil, err
	}

	return &domain.Instance{
		FolderName: folder,
		Name:       name,
		Mods:       []domain.ModInfo{},
	}, nil
}

// Persist writes the instance record, creating its directory if needed
func (s *InstanceStore) Persist(inst *domain.Instance) error {
	if err := validateSegment(inst.FolderName); err != nil {
		return err
	}
	if err := config.SaveInstance(s.Path(inst.FolderName), inst); err != nil {
		return fmt.Errorf("saving instance %s: %w", inst.FolderName, err)
	}
	s.log.Debug().Str("folder", inst.FolderName).Msg("saved instance")
	return nil
}

// Exists reports whether folder holds an instance record
func (s *InstanceStore) Exists(folder string) bool {
	if validateSegment(folder) != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(s.Path(folder), config.InstanceFile))
	return err == nil && info.Mode().IsRegular()
}

// Load reads the instance in folder and scans its Mods directory.
// Returns domain.ErrInstanceNotFound or domain.ErrInstanceParse on failure.
func (s *InstanceStore) Load(folder string) (*domain.Instance, error) {
	if err := validateSegment(folder); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInstanceNotFound, err)
	}

	inst, err := config.LoadInstance(s.Path(folder))
	if err != nil {
		return nil, err
	}

	inst.FolderName = folder
	inst.Mods = s.scanner.Scan(s.ModsPath(folder))
	return inst, nil
}

// LoadAll loads every instance under the instances directory, creating the
// directory when missing. Instances that fail to load are logged and skipped;
// only a failure to create or read the instances directory is returned.
func (s *InstanceStore) LoadAll() ([]*domain.Instance, error) {
	root := s.Root()
	if err := os.MkdirAll(root, 0755); err != nil {
		s.log.Error().Err(err).Str("dir", root).Msg("failed to ensure instances folder")
		return nil, fmt.Errorf("creating instances dir: %w", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		s.log.Error().Err(err).Str("dir", root).Msg("failed reading instances folder")
		return nil, fmt.Errorf("reading instances dir: %w", err)
	}

	instances := make([]*domain.Instance, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		folder := entry.Name()
		inst, err := s.Load(folder)
		if err != nil {
			s.log.Error().Err(err).Str("folder", folder).Msg("failed loading instance")
			continue
		}
		s.log.Debug().Str("folder", folder).Int("mods", inst.ModCount()).Msg("loaded instance")
		instances = append(instances, inst)
	}

	s.log.Info().Int("count", len(instances)).Msg("loaded instances")
	return instances, nil
}

// Delete removes the instance directory and everything in it
func (s *InstanceStore) Delete(folder string) error {
	if !s.Exists(folder) {
		return fmt.Errorf("%w: %s", domain.ErrInstanceNotFound, folder)
	}
	if err := os.RemoveAll(s.Path(folder)); err != nil {
		return fmt.Errorf("deleting instance %s: %w", folder, err)
	}
	s.log.Info().Str("folder", folder).Msg("deleted instance")
	return nil
}

// SanitizeFolderName turns a display name into a single safe path segment
func SanitizeFolderName(name string) (string, error) {
	folder, err := filenamify.Filenamify(strings.TrimSpace(name), filenamify.Options{
		Replacement: folderReplacement,
		MaxLength:   folderMaxLength,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidName, err)
	}

	// length limit is in bytes and may split a rune
	folder = strings.TrimSpace(strings.ToValidUTF8(folder, ""))
	if err := validateSegment(folder); err != nil {
		return "", err
	}
	return folder, nil
}

// validateSegment rejects anything that is not a single plain path segment
func validateSegment(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q is not a usable folder name", domain.ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", domain.ErrInvalidName, name)
	}
	return nil
}
