// Package config provides configuration and instance record parsing.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ResolveRootDir validates a launcher root directory and returns the cleaned path.
// An empty path means the current working directory and resolves to ".".
// A leading "~/" is expanded to the user's home directory.
// It returns an error if:
//   - The home directory cannot be determined for a "~/" path
//   - The path exists but is not a directory
//
// A path that does not exist yet is accepted; it is created on first use.
func ResolveRootDir(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ".", nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.New("cannot expand ~: home directory unknown")
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return path, nil
		}
		return "", err
	}

	if !info.IsDir() {
		return "", errors.New("root path is a file, not a directory")
	}

	return path, nil
}
