package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/DonovanMods/vs-launcher/internal/domain"
)

// InstanceFile is the record file name inside each instance directory
const InstanceFile = "instance.toml"

// InstanceRecord is the TOML representation of an instance.
// The folder name and mod list are derived from disk and never written.
type InstanceRecord struct {
	Name        string `toml:"name"`
	Icon        string `toml:"icon,omitempty"`
	GameExePath string `toml:"game_exe_path,omitempty"`
}

// LoadInstance reads the instance record stored in dir.
// Returns domain.ErrInstanceNotFound when the file is absent or unreadable and
// domain.ErrInstanceParse when it cannot be decoded or lacks a name.
// FolderName is set from the base name of dir.
func LoadInstance(dir string) (*domain.Instance, error) {
	recordPath := filepath.Join(dir, InstanceFile)
	data, err := os.ReadFile(recordPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInstanceNotFound, err)
	}

	var rec InstanceRecord
	md, err := toml.Decode(string(data), &rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInstanceParse, err)
	}
	if !md.IsDefined("name") {
		return nil, fmt.Errorf("%w: %s: missing required key \"name\"", domain.ErrInstanceParse, recordPath)
	}

	return &domain.Instance{
		FolderName:  filepath.Base(dir),
		Name:        rec.Name,
		Icon:        rec.Icon,
		GameExePath: rec.GameExePath,
	}, nil
}

// SaveInstance writes the instance record into dir, creating the directory
// if needed and overwriting any existing record.
func SaveInstance(dir string, inst *domain.Instance) error {
	rec := InstanceRecord{
		Name:        inst.Name,
		Icon:        inst.Icon,
		GameExePath: inst.GameExePath,
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(rec); err != nil {
		return fmt.Errorf("encoding instance record: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating instance dir: %w", err)
	}

	recordPath := filepath.Join(dir, InstanceFile)
	if err := os.WriteFile(recordPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing instance record: %w", err)
	}

	return nil
}
