package core

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/DonovanMods/vs-launcher/internal/domain"
)

// maxModInfoSize caps how much of a modinfo.json entry is read
const maxModInfoSize = 1 << 20

// ModScanner reads mod metadata from the archives in a Mods directory
type ModScanner struct {
	log zerolog.Logger
}

// NewModScanner creates a new ModScanner
func NewModScanner(log zerolog.Logger) *ModScanner {
	return &ModScanner{log: log}
}

// Scan returns one ModInfo per regular file in modsDir, in directory order.
// A missing directory yields an empty result. Archives that cannot be opened
// or carry no usable modinfo.json are still listed, with Err set.
func (s *ModScanner) Scan(modsDir string) []domain.ModInfo {
	entries, err := os.ReadDir(modsDir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Error().Err(err).Str("dir", modsDir).Msg("failed reading mods folder")
		}
		return []domain.ModInfo{}
	}

	mods := make([]domain.ModInfo, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(modsDir, entry.Name())
		if !isFile(entry, path) {
			continue
		}

		mod := s.ScanFile(path)
		if mod.Err != nil {
			s.log.Debug().Err(mod.Err).Str("archive", mod.ArchiveName).Msg("failed parsing mod")
		} else {
			s.log.Debug().Str("archive", mod.ArchiveName).Str("mod_id", mod.ModID).Msg("parsed mod")
		}
		mods = append(mods, mod)
	}

	return mods
}

// ScanFile extracts the metadata of a single archive. It never fails; problems
// are reported through the returned ModInfo's Err.
func (s *ModScanner) ScanFile(archivePath string) domain.ModInfo {
	mod := domain.ModInfo{ArchiveName: filepath.Base(archivePath)}
	if info, err := os.Stat(archivePath); err == nil {
		mod.Size = info.Size()
	}

	meta, err := readArchiveMetadata(archivePath)
	if err != nil {
		mod.Err = err
		return mod
	}

	mod.ModID = meta.ModID
	mod.Name = meta.Name
	mod.Description = meta.Description
	mod.Version = meta.Version
	return mod
}

// isFile reports whether a directory entry is a regular file, following symlinks
func isFile(entry os.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// readArchiveMetadata opens the zip at archivePath and decodes its modinfo.json
func readArchiveMetadata(archivePath string) (meta *modMetadata, err error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrArchiveUnreadable, err)
	}
	defer func() {
		if cerr := r.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%w: closing zip: %w", domain.ErrArchiveUnreadable, cerr)
		}
	}()

	var entry *zip.File
	for _, f := range r.File {
		if f.Name == ModInfoEntry {
			entry = f
			break
		}
	}
	if entry == nil {
		return nil, domain.ErrModInfoMissing
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", domain.ErrArchiveUnreadable, ModInfoEntry, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxModInfoSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrArchiveUnreadable, ModInfoEntry, err)
	}
	if len(data) > maxModInfoSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrModInfoInvalid, ModInfoEntry, maxModInfoSize)
	}

	meta, err = decodeModInfo(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrModInfoInvalid, err)
	}

	return meta, nil
}
