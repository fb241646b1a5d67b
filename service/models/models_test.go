package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLedgerReference(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		expected  string
	}{
		{name: "strips dashes and uppercases", reference: "gpay-m1abc2-x9z1", expected: "GPAYM1ABC2X9Z1"},
		{name: "already normalized", reference: "TXN1700000000000", expected: "TXN1700000000000"},
		{name: "empty", reference: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LedgerReference(tt.reference))
		})
	}
}

func TestOtpRecordExpired(t *testing.T) {
	now := time.Now()
	record := OtpRecord{Code: "123456", ExpiresAt: now.Add(5 * time.Minute)}

	assert.False(t, record.Expired(now))
	assert.False(t, record.Expired(now.Add(5*time.Minute-time.Second)))
	assert.True(t, record.Expired(now.Add(5*time.Minute+time.Second)))
}

func TestTxnRefIsTerminal(t *testing.T) {
	assert.False(t, (&TxnRef{Status: TxnRefStatusPending}).IsTerminal())
	assert.True(t, (&TxnRef{Status: TxnRefStatusCompleted}).IsTerminal())
	assert.True(t, (&TxnRef{Status: TxnRefStatusFailed}).IsTerminal())
}
