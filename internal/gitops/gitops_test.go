package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = Author{Name: "ledgerlink", Email: "ledgerlink@localhost"}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err)
}

func TestIsRepo(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepo(dir))

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir))
}

func TestCommitAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transactions.csv"), []byte("id,date\n"), 0o644))

	hash, err := CommitAll(dir, "import: april from april.csv", testAuthor)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	log := exec.Command("git", "log", "--format=%s|%an <%ae>", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "import: april from april.csv")
	assert.Contains(t, string(out), "ledgerlink <ledgerlink@localhost>")
}

func TestCommitAll_NothingToCommit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x\n"), 0o644))

	_, err := CommitAll(dir, "first", testAuthor)
	require.NoError(t, err)

	hash, err := CommitAll(dir, "second", testAuthor)
	require.NoError(t, err)
	assert.Empty(t, hash, "a clean tree commits nothing")
}
