package core

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/DonovanMods/vs-launcher/internal/assets"
)

// IconsDir holds the selectable icon images under the root
const IconsDir = "icons"

// IconHandle refers to an icon image: either a file in the icons directory
// or the built-in default.
type IconHandle struct {
	Name    string // File name, or assets.DefaultIconName for the default
	Path    string // Joined with the root; empty for the default
	Default bool
}

// Bytes returns the image data
func (h IconHandle) Bytes() ([]byte, error) {
	if h.Default {
		return assets.DefaultIcon, nil
	}
	data, err := os.ReadFile(h.Path)
	if err != nil {
		return nil, fmt.Errorf("reading icon: %w", err)
	}
	return data, nil
}

// IconCatalog lists and resolves icons in the shared icons directory
type IconCatalog struct {
	root string
	log  zerolog.Logger
}

// NewIconCatalog creates a catalog for root/icons
func NewIconCatalog(root string, log zerolog.Logger) *IconCatalog {
	return &IconCatalog{root: root, log: log}
}

// Dir returns the icons directory
func (c *IconCatalog) Dir() string {
	return filepath.Join(c.root, IconsDir)
}

// List returns the names of the files in the icons directory, creating the
// directory when missing. Directories and names that are not valid UTF-8 are
// skipped.
func (c *IconCatalog) List() ([]string, error) {
	dir := c.Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.log.Error().Err(err).Str("dir", dir).Msg("failed to ensure icons folder")
		return nil, fmt.Errorf("creating icons dir: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		c.log.Error().Err(err).Str("dir", dir).Msg("failed reading icons folder")
		return nil, fmt.Errorf("reading icons dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !isFile(entry, filepath.Join(dir, entry.Name())) {
			continue
		}
		if !utf8.ValidString(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}

	c.log.Info().Int("count", len(names)).Msg("loaded icons")
	return names, nil
}

// Has reports whether name is a file in the icons directory
func (c *IconCatalog) Has(name string) bool {
	if name == "" || validateSegment(name) != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(c.Dir(), name))
	return err == nil && info.Mode().IsRegular()
}

// Resolve returns a handle for the named icon, or the default handle when the
// name is empty or no such file exists.
func (c *IconCatalog) Resolve(name string) IconHandle {
	if c.Has(name) {
		return IconHandle{Name: name, Path: filepath.Join(c.Dir(), name)}
	}
	return DefaultIcon()
}

// DefaultIcon returns the handle of the built-in icon
func DefaultIcon() IconHandle {
	return IconHandle{Name: assets.DefaultIconName, Default: true}
}
