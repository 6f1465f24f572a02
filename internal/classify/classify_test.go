package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

// mockLedgers implements LedgerChecker for testing.
type mockLedgers struct {
	names map[string]bool
}

func (m *mockLedgers) Exists(name string) bool {
	return m.names[name]
}

func newMockLedgers(names ...string) *mockLedgers {
	m := &mockLedgers{names: make(map[string]bool)}
	for _, n := range names {
		m.names[n] = true
	}
	return m
}

func TestAllowedVoucherTypes_Debit(t *testing.T) {
	assert.Equal(t,
		[]model.VoucherType{model.VoucherPayment, model.VoucherContra, model.VoucherJournal},
		AllowedVoucherTypes(model.DirectionDebit))
}

func TestAllowedVoucherTypes_Credit(t *testing.T) {
	assert.Equal(t,
		[]model.VoucherType{model.VoucherReceipt, model.VoucherContra, model.VoucherJournal},
		AllowedVoucherTypes(model.DirectionCredit))
}

func TestAllowedVoucherTypes_Unknown(t *testing.T) {
	got := AllowedVoucherTypes("")
	assert.Len(t, got, 4)
}

func TestIsAllowed(t *testing.T) {
	assert.True(t, IsAllowed(model.VoucherPayment, model.DirectionDebit))
	assert.False(t, IsAllowed(model.VoucherPayment, model.DirectionCredit))
	assert.True(t, IsAllowed(model.VoucherContra, model.DirectionDebit))
	assert.True(t, IsAllowed(model.VoucherContra, model.DirectionCredit))
	assert.True(t, IsAllowed(model.VoucherJournal, model.DirectionCredit))
	assert.False(t, IsAllowed(model.VoucherReceipt, model.DirectionDebit))
}

func TestApplyDirectionChange_SwapsIllegalVoucher(t *testing.T) {
	txn := model.Transaction{Direction: model.DirectionDebit, VoucherType: model.VoucherPayment}

	ApplyDirectionChange(&txn, model.DirectionCredit)

	assert.Equal(t, model.DirectionCredit, txn.Direction)
	assert.Equal(t, model.VoucherReceipt, txn.VoucherType)
}

func TestApplyDirectionChange_PreservesContra(t *testing.T) {
	txn := model.Transaction{Direction: model.DirectionDebit, VoucherType: model.VoucherContra}

	ApplyDirectionChange(&txn, model.DirectionCredit)

	assert.Equal(t, model.DirectionCredit, txn.Direction)
	assert.Equal(t, model.VoucherContra, txn.VoucherType)
}

func TestApplyDirectionChange_PreservesJournal(t *testing.T) {
	txn := model.Transaction{Direction: model.DirectionCredit, VoucherType: model.VoucherJournal}

	ApplyDirectionChange(&txn, model.DirectionDebit)

	assert.Equal(t, model.VoucherJournal, txn.VoucherType)
}

func TestApplyDirectionChange_CreditToDebit(t *testing.T) {
	txn := model.Transaction{Direction: model.DirectionCredit, VoucherType: model.VoucherReceipt}

	ApplyDirectionChange(&txn, model.DirectionDebit)

	assert.Equal(t, model.VoucherPayment, txn.VoucherType)
}

// The invariant: after any direction change the voucher type is legal
// for the new direction, whatever the starting pair was.
func TestApplyDirectionChange_InvariantHolds(t *testing.T) {
	directions := []model.Direction{model.DirectionDebit, model.DirectionCredit}
	vouchers := []model.VoucherType{model.VoucherPayment, model.VoucherReceipt, model.VoucherContra, model.VoucherJournal}

	for _, from := range directions {
		for _, vt := range vouchers {
			for _, to := range directions {
				txn := model.Transaction{Direction: from, VoucherType: vt}
				ApplyDirectionChange(&txn, to)
				assert.True(t, IsAllowed(txn.VoucherType, txn.Direction),
					"from=%s voucher=%s to=%s got %s", from, vt, to, txn.VoucherType)
			}
		}
	}
}

func TestApplyVoucherChange_Unconditional(t *testing.T) {
	txn := model.Transaction{Direction: model.DirectionDebit, VoucherType: model.VoucherPayment}

	ApplyVoucherChange(&txn, model.VoucherContra)

	assert.Equal(t, model.VoucherContra, txn.VoucherType)
}

func TestDeriveStatus_Resolved(t *testing.T) {
	ledgers := newMockLedgers("Office Expenses")
	txn := model.Transaction{
		Direction:   model.DirectionDebit,
		VoucherType: model.VoucherPayment,
		LedgerName:  "Office Expenses",
	}

	assert.Equal(t, model.StatusResolved, DeriveStatus(txn, ledgers))
}

func TestDeriveStatus_PendingWithoutLedger(t *testing.T) {
	txn := model.Transaction{Direction: model.DirectionDebit, VoucherType: model.VoucherPayment}
	assert.Equal(t, model.StatusPending, DeriveStatus(txn, newMockLedgers()))
}

func TestDeriveStatus_PendingWhenLedgerUnknown(t *testing.T) {
	// A ledger name may be assigned before the ledger exists; the
	// transaction stays Pending until the registry catches up.
	txn := model.Transaction{
		Direction:   model.DirectionCredit,
		VoucherType: model.VoucherReceipt,
		LedgerName:  "Not Yet Created",
	}
	assert.Equal(t, model.StatusPending, DeriveStatus(txn, newMockLedgers("Other")))
}

func TestDeriveStatus_PendingOnIllegalVoucher(t *testing.T) {
	ledgers := newMockLedgers("Salary Account")
	txn := model.Transaction{
		Direction:   model.DirectionDebit,
		VoucherType: model.VoucherReceipt,
		LedgerName:  "Salary Account",
	}
	assert.Equal(t, model.StatusPending, DeriveStatus(txn, ledgers))
}
