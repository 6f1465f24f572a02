package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	ws := t.TempDir()
	dir := filepath.Join(ws, "import")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "processed"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "april.csv"), []byte("a,b\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MAY.CSV"), []byte("a,b\n"), 0o644))

	files, err := Scan(ws)
	require.NoError(t, err)
	require.Len(t, files, 2, "only CSV files, subdirectories skipped")

	names := []string{files[0].Name, files[1].Name}
	assert.Contains(t, names, "april.csv")
	assert.Contains(t, names, "MAY.CSV")
	assert.Equal(t, int64(4), files[0].Size)
}

func TestScan_MissingImportDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestMarkProcessed(t *testing.T) {
	ws := t.TempDir()
	dir := filepath.Join(ws, "import")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "april.csv"), []byte("a,b\n"), 0o644))

	require.NoError(t, MarkProcessed(ws, "april.csv"))

	_, err := os.Stat(filepath.Join(dir, "april.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "processed", "april.csv"))
	assert.NoError(t, err)

	files, err := Scan(ws)
	require.NoError(t, err)
	assert.Empty(t, files, "processed files no longer show up")
}
