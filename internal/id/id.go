package id

import (
	"fmt"
	"strings"
	"time"
)

// FormatTransactionID returns a synthetic transaction id like
// "TXN-20240401-003", used when a statement row carries no reference
// number of its own.
func FormatTransactionID(date time.Time, seq int) string {
	return fmt.Sprintf("TXN-%s-%03d", date.Format("20060102"), seq)
}

// FormatVoucherNumber returns the Tally voucher number for a
// transaction id: "VCH-" + id.
func FormatVoucherNumber(txnID string) string {
	return "VCH-" + txnID
}

// SanitizeRef normalizes a bank reference number for use as a
// transaction id: trimmed, with inner whitespace collapsed to dashes.
func SanitizeRef(ref string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(ref)), "-")
}
