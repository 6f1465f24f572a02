package synclog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(action, txnID, outcome string) Entry {
	return Entry{
		Timestamp:     time.Date(2025, 4, 1, 10, 30, 0, 0, time.UTC),
		Batch:         "april",
		Action:        action,
		TransactionID: txnID,
		Outcome:       outcome,
		Details:       "2 records",
	}
}

func TestAppendAndRead(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Append(dir, []Entry{entry("sync", "", "succeeded")}))
	require.NoError(t, Append(dir, []Entry{
		entry("sync", "TXN-1", "succeeded"),
		entry("sync", "TXN-2", "failed"),
	}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "april", entries[0].Batch)
	assert.Equal(t, "sync", entries[0].Action)
	assert.Equal(t, "TXN-2", entries[2].TransactionID)
	assert.Equal(t, "failed", entries[2].Outcome)
	assert.True(t, entries[0].Timestamp.Equal(time.Date(2025, 4, 1, 10, 30, 0, 0, time.UTC)))
}

func TestAppend_WritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Append(dir, []Entry{entry("import", "", "succeeded")}))
	require.NoError(t, Append(dir, []Entry{entry("import", "", "succeeded")}))

	data, err := os.ReadFile(filepath.Join(dir, "logs", "sync-log.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	assert.NotEqual(t, Header, lines[1])
}

func TestRead_MissingFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnmarshalEntry_BadRow(t *testing.T) {
	_, err := UnmarshalEntry([]string{"too", "short"})
	assert.Error(t, err)

	row := MarshalEntry(entry("sync", "", "succeeded"))
	row[0] = "yesterday"
	_, err = UnmarshalEntry(row)
	assert.Error(t, err)
}
