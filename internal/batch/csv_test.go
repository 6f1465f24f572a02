package batch

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

func TestWriteReadTransactions(t *testing.T) {
	txns := []model.Transaction{
		{
			ID:          "TXN-20250401-001",
			Date:        date("2025-04-01"),
			Narration:   "UPI-SWIGGY",
			Remark:      "lunch",
			Amount:      dec("450.00"),
			Direction:   model.DirectionDebit,
			VoucherType: model.VoucherPayment,
			LedgerName:  "Food Expenses",
			Status:      model.StatusResolved,
			Synced:      true,
		},
		{
			ID:          "TXN-20250402-001",
			Date:        date("2025-04-02"),
			Narration:   "NEFT CR ACME CORP",
			Amount:      dec("15000.00"),
			Direction:   model.DirectionCredit,
			VoucherType: model.VoucherReceipt,
			Status:      model.StatusPending,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, txns))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, txns[0].ID, got[0].ID)
	assert.Equal(t, txns[0].Remark, got[0].Remark)
	assert.True(t, got[0].Amount.Equal(dec("450.00")))
	assert.True(t, got[0].Synced)
	assert.Equal(t, model.StatusResolved, got[0].Status)

	assert.Equal(t, model.DirectionCredit, got[1].Direction)
	assert.False(t, got[1].Synced)
}

func TestReadTransactions_Empty(t *testing.T) {
	got, err := ReadTransactions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnmarshalTransaction_BadRows(t *testing.T) {
	_, err := UnmarshalTransaction([]string{"too", "short"})
	assert.Error(t, err)

	row := MarshalTransaction(model.Transaction{
		ID: "TXN-1", Date: date("2025-04-01"), Amount: dec("10"),
		Direction: model.DirectionDebit, VoucherType: model.VoucherPayment,
		Status: model.StatusPending,
	})

	bad := make([]string, len(row))
	copy(bad, row)
	bad[colDate] = "01/04/2025"
	_, err = UnmarshalTransaction(bad)
	assert.Error(t, err)

	copy(bad, row)
	bad[colAmount] = "ten"
	_, err = UnmarshalTransaction(bad)
	assert.Error(t, err)
}
