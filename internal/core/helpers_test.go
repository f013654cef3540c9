package core_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/DonovanMods/vs-launcher/internal/domain"
	"github.com/DonovanMods/vs-launcher/internal/storage/config"

	"github.com/stretchr/testify/require"
)

// createTestZip writes a zip archive named name into dir containing files
func createTestZip(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))

	zipPath := filepath.Join(dir, name)
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for entry, content := range files {
		fw, err := w.Create(entry)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return zipPath
}

// writeInstance stores an instance record under root/instances/folder
func writeInstance(t *testing.T, root, folder string, inst *domain.Instance) string {
	t.Helper()
	dir := filepath.Join(root, "instances", folder)
	require.NoError(t, config.SaveInstance(dir, inst))
	return dir
}

const betterRuinsModInfo = `{
	// exported by the mod template
	type: "content",
	ModID: "betterruins",
	name: "Better Ruins",
	description: 'Adds ruins',
	version: "0.4.1",
}`
