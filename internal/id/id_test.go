package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTransactionID(t *testing.T) {
	d := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "TXN-20250401-003", FormatTransactionID(d, 3))
	assert.Equal(t, "TXN-20250401-120", FormatTransactionID(d, 120))
}

func TestFormatVoucherNumber(t *testing.T) {
	assert.Equal(t, "VCH-TXN-20250401-003", FormatVoucherNumber("TXN-20250401-003"))
}

func TestSanitizeRef(t *testing.T) {
	assert.Equal(t, "REF001", SanitizeRef("  REF001  "))
	assert.Equal(t, "CHQ-12-34", SanitizeRef("CHQ 12  34"))
	assert.Equal(t, "", SanitizeRef("   "))
}
