package commands

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly-ten", truncate("exactly-ten", 11))
	assert.Equal(t, "toolon…", truncate("toolongtext", 7))

	// Narrations can carry multi-byte text; cutting must not split a rune.
	got := truncate("UPI-भुगतान-MUMBAI-रसीद", 10)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 10, len([]rune(got)))
}
