package domain

import "strings"

// Instance is a named game profile with its own mods folder
type Instance struct {
	FolderName  string    // Directory under instances/, fixed at creation
	Name        string    // Display name, may change on edit
	Icon        string    // Icon file name; empty means the built-in default
	GameExePath string    // Optional path to the game executable
	Mods        []ModInfo // Recomputed on every load, never persisted
}

// ModCount returns the number of archives found in the instance's Mods folder
func (i *Instance) ModCount() int {
	return len(i.Mods)
}

// HasExecutable reports whether a game executable is configured
func (i *Instance) HasExecutable() bool {
	return strings.TrimSpace(i.GameExePath) != ""
}

// ModInfo describes one archive in an instance's Mods folder.
// Err is nil when modinfo.json was found and decoded; otherwise only
// ArchiveName is populated.
type ModInfo struct {
	ArchiveName string
	ModID       string
	Name        string
	Description string
	Version     string
	Size        int64
	Err         error
}

// OK reports whether the archive's metadata was read successfully
func (m ModInfo) OK() bool {
	return m.Err == nil
}

// DisplayName returns the declared mod name, falling back to the archive name
func (m ModInfo) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ArchiveName
}
