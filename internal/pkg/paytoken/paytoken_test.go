package paytoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	at := time.Date(2024, 5, 17, 9, 30, 45, 0, time.UTC)
	assert.Equal(t, "FINE-42-20240517093045", New(42, at))
}

func TestParseLoanID(t *testing.T) {
	at := time.Date(2024, 5, 17, 9, 30, 45, 0, time.UTC)
	id, err := ParseLoanID(New(123, at))
	assert.NoError(t, err)
	assert.Equal(t, uint(123), id)
}

func TestParseLoanID_Malformed(t *testing.T) {
	bad := []string{
		"",
		"GARBAGE",
		"FINE",
		"FINE-42",
		"FINE-42-",
		"FINE--20240517093045",
		"FINE-abc-20240517093045",
		"FINE-0-20240517093045",
		"PAY-42-20240517093045",
		"FINE-42-2024-0517",
	}
	for _, orderID := range bad {
		_, err := ParseLoanID(orderID)
		assert.ErrorIs(t, err, ErrMalformed, "orderID=%q", orderID)
	}
}
