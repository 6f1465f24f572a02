// Package classify holds the pure rules that keep a transaction's
// direction and voucher type mutually consistent.
package classify

import (
	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

// AllowedVoucherTypes returns the voucher types legal for a direction.
// An unknown direction places no constraint.
func AllowedVoucherTypes(dir model.Direction) []model.VoucherType {
	switch dir {
	case model.DirectionDebit:
		return []model.VoucherType{model.VoucherPayment, model.VoucherContra, model.VoucherJournal}
	case model.DirectionCredit:
		return []model.VoucherType{model.VoucherReceipt, model.VoucherContra, model.VoucherJournal}
	default:
		return []model.VoucherType{model.VoucherPayment, model.VoucherReceipt, model.VoucherContra, model.VoucherJournal}
	}
}

// IsAllowed reports whether vt is legal for dir.
func IsAllowed(vt model.VoucherType, dir model.Direction) bool {
	for _, allowed := range AllowedVoucherTypes(dir) {
		if allowed == vt {
			return true
		}
	}
	return false
}

// DefaultVoucherType returns the conventional voucher type for a
// direction: Payment for debits, Receipt for credits.
func DefaultVoucherType(dir model.Direction) model.VoucherType {
	if dir == model.DirectionCredit {
		return model.VoucherReceipt
	}
	return model.VoucherPayment
}

// ApplyDirectionChange sets the direction and, if the current voucher
// type is no longer legal, swaps it for the direction's default.
// Contra and Journal are legal either way and survive the change.
func ApplyDirectionChange(t *model.Transaction, dir model.Direction) {
	t.Direction = dir
	if !IsAllowed(t.VoucherType, dir) {
		t.VoucherType = DefaultVoucherType(dir)
	}
}

// ApplyVoucherChange sets the voucher type. The choice is the
// operator's and is accepted unconditionally; callers offer only types
// from AllowedVoucherTypes.
func ApplyVoucherChange(t *model.Transaction, vt model.VoucherType) {
	t.VoucherType = vt
}

// LedgerChecker tests whether a ledger name exists in the registry.
type LedgerChecker interface {
	Exists(name string) bool
}

// DeriveStatus computes a transaction's status from its current fields:
// Resolved only when a ledger is assigned, that ledger exists, and the
// voucher type is consistent with the direction.
func DeriveStatus(t model.Transaction, ledgers LedgerChecker) model.TransactionStatus {
	if t.LedgerName == "" {
		return model.StatusPending
	}
	if ledgers == nil || !ledgers.Exists(t.LedgerName) {
		return model.StatusPending
	}
	if !IsAllowed(t.VoucherType, t.Direction) {
		return model.StatusPending
	}
	return model.StatusResolved
}
