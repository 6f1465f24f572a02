package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the monetary direction of a bank transaction.
type Direction string

const (
	DirectionDebit  Direction = "Dr"
	DirectionCredit Direction = "Cr"
)

// VoucherType is the Tally voucher type a transaction posts as.
type VoucherType string

const (
	VoucherPayment VoucherType = "Payment"
	VoucherReceipt VoucherType = "Receipt"
	VoucherContra  VoucherType = "Contra"
	VoucherJournal VoucherType = "Journal"
)

// TransactionStatus is the reconciliation state of a transaction.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "Pending"
	StatusResolved TransactionStatus = "Resolved"
)

// Transaction is one bank-statement line item under reconciliation.
type Transaction struct {
	ID          string
	Date        time.Time
	Narration   string
	Remark      string
	Amount      decimal.Decimal // non-negative magnitude
	Direction   Direction
	VoucherType VoucherType
	LedgerName  string // references a Ledger by name; may be empty
	Status      TransactionStatus
	Synced      bool // true once the sink has accepted the current state
}

// RawRecord is a parsed statement row as produced by an importer,
// before ingestion normalizes it into a Transaction. Exactly one of
// Withdrawal/Deposit is expected to be positive.
type RawRecord struct {
	ID          string
	Date        time.Time
	Narration   string
	Withdrawal  decimal.Decimal
	Deposit     decimal.Decimal
	VoucherType VoucherType // optional, carried over from a prior session
	LedgerName  string      // optional
}

// SyncResult is the per-transaction outcome of one synchronization attempt.
type SyncResult struct {
	TransactionID string
	Succeeded     bool
	ErrorMessage  string
}

// DateDisplayFormat is the on-screen date format (DD-MM-YYYY), matching
// how bank statements print dates. Filters match against it.
const DateDisplayFormat = "02-01-2006"

// DisplayDate formats the transaction date for display and filtering.
func (t Transaction) DisplayDate() string {
	return t.Date.Format(DateDisplayFormat)
}
