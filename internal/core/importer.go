package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/DonovanMods/vs-launcher/internal/domain"
)

// partialSuffix marks an archive that is still being copied
const partialSuffix = ".part"

// ModImporter copies mod archives into and out of Mods directories
type ModImporter struct {
	scanner *ModScanner
	log     zerolog.Logger
}

// NewModImporter creates an importer that scans archives after copying them
func NewModImporter(scanner *ModScanner, log zerolog.Logger) *ModImporter {
	return &ModImporter{scanner: scanner, log: log}
}

// Import copies the archive at archivePath into modsDir under its own file
// name and returns the scanned result. The archive is copied even when its
// metadata is unreadable; the returned ModInfo carries the diagnostic.
func (i *ModImporter) Import(archivePath, modsDir string) (domain.ModInfo, error) {
	info, err := os.Stat(archivePath)
	if err != nil {
		return domain.ModInfo{}, fmt.Errorf("archive not found: %w", err)
	}
	if !info.Mode().IsRegular() {
		return domain.ModInfo{}, fmt.Errorf("archive is not a regular file: %s", archivePath)
	}

	name := filepath.Base(archivePath)
	if err := validateSegment(name); err != nil {
		return domain.ModInfo{}, err
	}

	dest := filepath.Join(modsDir, name)
	if _, err := os.Lstat(dest); err == nil {
		return domain.ModInfo{}, fmt.Errorf("%w: %s", domain.ErrModExists, name)
	}

	if err := os.MkdirAll(modsDir, 0755); err != nil {
		return domain.ModInfo{}, fmt.Errorf("creating mods directory: %w", err)
	}

	// a failed copy must not leave a truncated archive under the real name
	partial := dest + partialSuffix
	if err := copyFileStreaming(archivePath, partial); err != nil {
		os.Remove(partial)
		return domain.ModInfo{}, fmt.Errorf("copying archive: %w", err)
	}
	if err := os.Rename(partial, dest); err != nil {
		os.Remove(partial)
		return domain.ModInfo{}, fmt.Errorf("moving archive into place: %w", err)
	}

	mod := i.scanner.ScanFile(dest)
	i.log.Info().Str("archive", name).Str("dir", modsDir).Bool("metadata", mod.OK()).Msg("added mod")
	return mod, nil
}

// Remove deletes the archive named name from modsDir
func (i *ModImporter) Remove(modsDir, name string) error {
	if err := validateSegment(name); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrModNotFound, err)
	}

	path := filepath.Join(modsDir, name)
	info, err := os.Lstat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", domain.ErrModNotFound, name)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing archive: %w", err)
	}
	i.log.Info().Str("archive", name).Str("dir", modsDir).Msg("removed mod")
	return nil
}

// copyFileStreaming copies src to dst without loading the file into memory
func copyFileStreaming(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("copying: %w", err)
	}

	return dstFile.Sync()
}
