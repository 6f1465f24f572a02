package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

// Header is the CSV header for transactions.csv.
const Header = "id,date,narration,remark,amount,direction,voucher,ledger,status,synced"

const (
	numFields    = 10
	dateFormat   = "2006-01-02"
	colID        = 0
	colDate      = 1
	colNarration = 2
	colRemark    = 3
	colAmount    = 4
	colDirection = 5
	colVoucher   = 6
	colLedger    = 7
	colStatus    = 8
	colSynced    = 9
)

// ReadTransactions reads all transactions from a transactions.csv reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// WriteTransactions writes transactions to a transactions.csv writer
// (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = t.ID
	row[colDate] = t.Date.Format(dateFormat)
	row[colNarration] = t.Narration
	row[colRemark] = t.Remark
	row[colAmount] = t.Amount.StringFixed(2)
	row[colDirection] = string(t.Direction)
	row[colVoucher] = string(t.VoucherType)
	row[colLedger] = t.LedgerName
	row[colStatus] = string(t.Status)
	if t.Synced {
		row[colSynced] = "true"
	}
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return model.Transaction{
		ID:          record[colID],
		Date:        date,
		Narration:   record[colNarration],
		Remark:      record[colRemark],
		Amount:      amount,
		Direction:   model.Direction(record[colDirection]),
		VoucherType: model.VoucherType(record[colVoucher]),
		LedgerName:  record[colLedger],
		Status:      model.TransactionStatus(record[colStatus]),
		Synced:      record[colSynced] == "true",
	}, nil
}
