// Package bulk serializes a batch into a sink payload and reconciles
// the sink's outcome back into the store.
package bulk

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

// VoucherRecord is one transaction in wire shape: the direction is
// carried as a withdrawal/deposit amount split, the way the statement
// originally expressed it.
type VoucherRecord struct {
	ID          string                  `json:"id"`
	Date        time.Time               `json:"date"`
	Narration   string                  `json:"narration"`
	Remark      string                  `json:"remark,omitempty"`
	Withdrawal  decimal.Decimal         `json:"withdrawal_amount"`
	Deposit     decimal.Decimal         `json:"deposit_amount"`
	FromLedger  string                  `json:"from_ledger"`
	ToLedger    string                  `json:"to_ledger"`
	VoucherType model.VoucherType       `json:"voucher"`
	Status      model.TransactionStatus `json:"status"`
}

// Encode maps a transaction to its wire shape. A debit becomes a
// withdrawal of the full amount with a zero deposit, a credit the
// converse, so the direction/amount pair survives a round trip.
func Encode(t model.Transaction, bankLedger string) VoucherRecord {
	rec := VoucherRecord{
		ID:          t.ID,
		Date:        t.Date,
		Narration:   t.Narration,
		Remark:      t.Remark,
		FromLedger:  bankLedger,
		ToLedger:    t.LedgerName,
		VoucherType: t.VoucherType,
		Status:      t.Status,
	}
	if t.Direction == model.DirectionDebit {
		rec.Withdrawal = t.Amount
	} else {
		rec.Deposit = t.Amount
	}
	return rec
}

// EncodeBatch encodes every transaction in order.
func EncodeBatch(txns []model.Transaction, bankLedger string) []VoucherRecord {
	out := make([]VoucherRecord, len(txns))
	for i, t := range txns {
		out[i] = Encode(t, bankLedger)
	}
	return out
}

// Decode reverses Encode using the ingestion rule: a positive
// withdrawal means debit, anything else credit.
func Decode(rec VoucherRecord) model.Transaction {
	t := model.Transaction{
		ID:          rec.ID,
		Date:        rec.Date,
		Narration:   rec.Narration,
		Remark:      rec.Remark,
		LedgerName:  rec.ToLedger,
		VoucherType: rec.VoucherType,
		Status:      rec.Status,
	}
	if rec.Withdrawal.IsPositive() {
		t.Direction = model.DirectionDebit
		t.Amount = rec.Withdrawal
	} else {
		t.Direction = model.DirectionCredit
		t.Amount = rec.Deposit
	}
	return t
}
