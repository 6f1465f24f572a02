package bulk

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleTxn(dir model.Direction) model.Transaction {
	vt := model.VoucherPayment
	if dir == model.DirectionCredit {
		vt = model.VoucherReceipt
	}
	return model.Transaction{
		ID:          "TXN-20250401-001",
		Date:        time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Narration:   "UPI-SWIGGY",
		Remark:      "lunch",
		Amount:      dec("450.00"),
		Direction:   dir,
		VoucherType: vt,
		LedgerName:  "Food Expenses",
		Status:      model.StatusResolved,
	}
}

func TestEncode_DebitSplitsToWithdrawal(t *testing.T) {
	rec := Encode(sampleTxn(model.DirectionDebit), "HDFC Bank")

	assert.True(t, rec.Withdrawal.Equal(dec("450.00")))
	assert.True(t, rec.Deposit.IsZero())
	assert.Equal(t, "HDFC Bank", rec.FromLedger)
	assert.Equal(t, "Food Expenses", rec.ToLedger)
}

func TestEncode_CreditSplitsToDeposit(t *testing.T) {
	rec := Encode(sampleTxn(model.DirectionCredit), "HDFC Bank")

	assert.True(t, rec.Withdrawal.IsZero())
	assert.True(t, rec.Deposit.Equal(dec("450.00")))
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, dir := range []model.Direction{model.DirectionDebit, model.DirectionCredit} {
		orig := sampleTxn(dir)
		got := Decode(Encode(orig, "HDFC Bank"))

		assert.Equal(t, orig.ID, got.ID)
		assert.Equal(t, orig.Direction, got.Direction)
		assert.True(t, got.Amount.Equal(orig.Amount))
		assert.Equal(t, orig.VoucherType, got.VoucherType)
		assert.Equal(t, orig.LedgerName, got.LedgerName)
		assert.Equal(t, orig.Status, got.Status)
	}
}

func TestEncodeBatch_PreservesOrder(t *testing.T) {
	a := sampleTxn(model.DirectionDebit)
	b := sampleTxn(model.DirectionCredit)
	b.ID = "TXN-20250402-001"

	recs := EncodeBatch([]model.Transaction{a, b}, "HDFC Bank")

	require.Len(t, recs, 2)
	assert.Equal(t, a.ID, recs[0].ID)
	assert.Equal(t, b.ID, recs[1].ID)
}
