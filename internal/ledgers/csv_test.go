package ledgers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

func TestWriteReadLedgers(t *testing.T) {
	in := []model.Ledger{
		{ID: "a", Name: "Office Expenses", ParentGroup: "Expenses (Indirect)"},
		{ID: "b", Name: "Acme Corp", ParentGroup: "Current Assets", GSTIN: "29ABCDE1234F1Z5", StateCode: "29"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLedgers(&buf, in))

	got, err := ReadLedgers(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestReadLedgers_Empty(t *testing.T) {
	got, err := ReadLedgers(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnmarshalLedger_MissingName(t *testing.T) {
	_, err := UnmarshalLedger([]string{"a", "", "Expenses (Indirect)", "", ""})
	assert.Error(t, err)
}
