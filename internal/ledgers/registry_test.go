package ledgers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

func TestNewRegistry_SeedDedupesFirstWins(t *testing.T) {
	r := NewRegistry([]model.Ledger{
		{ID: "a", Name: "Rent", ParentGroup: "Expenses (Indirect)"},
		{ID: "b", Name: "Rent", ParentGroup: "Expenses (Direct)"},
		{ID: "c", Name: "Cash", ParentGroup: "Cash-in-Hand"},
	})

	require.Equal(t, 2, r.Len())
	l, ok := r.Get("Rent")
	require.True(t, ok)
	assert.Equal(t, "a", l.ID)
}

func TestRegistryCreate(t *testing.T) {
	r := NewRegistry(nil)

	l, err := r.Create("Office Expenses", "Expenses (Indirect)", "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, "Office Expenses", l.Name)
	assert.True(t, r.Exists("Office Expenses"))
	assert.Equal(t, []string{"Office Expenses"}, r.Names())
}

func TestRegistryCreate_DuplicateLeavesRegistryUnchanged(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.Create("Rent", "Expenses (Indirect)", "", "")
	require.NoError(t, err)

	_, err = r.Create("Rent", "Expenses (Direct)", "", "")
	assert.ErrorIs(t, err, ErrDuplicateName)

	require.Equal(t, 1, r.Len())
	l, _ := r.Get("Rent")
	assert.Equal(t, "Expenses (Indirect)", l.ParentGroup)
}

func TestRegistryCreate_NameIsCaseSensitive(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.Create("Rent", "Expenses (Indirect)", "", "")
	require.NoError(t, err)

	_, err = r.Create("rent", "Expenses (Indirect)", "", "")
	assert.NoError(t, err)
	assert.Equal(t, 2, r.Len())
}

func TestRegistryCreate_UnknownGroup(t *testing.T) {
	r := NewRegistry(nil)

	_, err := r.Create("Rent", "Made Up Group", "", "")
	assert.ErrorIs(t, err, ErrUnknownGroup)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryCreate_EmptyName(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.Create("", "Expenses (Indirect)", "", "")
	assert.Error(t, err)
}

func TestRegistryCreate_WithGSTDetails(t *testing.T) {
	r := NewRegistry(nil)

	l, err := r.Create("Acme Corp", "Current Assets", "29ABCDE1234F1Z5", "29")
	require.NoError(t, err)
	assert.Equal(t, "29ABCDE1234F1Z5", l.GSTIN)
	assert.Equal(t, "29", l.StateCode)
}

func TestRegistryGet_Unknown(t *testing.T) {
	r := NewRegistry(nil)
	_, ok := r.Get("missing")
	assert.False(t, ok)
	assert.False(t, r.Exists("missing"))
}
