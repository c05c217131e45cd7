// Package paytoken formats and parses the order IDs exchanged with the
// payment gateway. The shape is FINE-{loanID}-{timestamp}; the timestamp
// keeps retried payment attempts for the same loan distinct on the gateway
// side, only the loan ID matters for reconciliation.
package paytoken

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const Prefix = "FINE"

var ErrMalformed = errors.New("order id does not match FINE-{loanID}-{timestamp}")

// New builds an order ID for a fine payment attempt
func New(loanID uint, now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", Prefix, loanID, now.Format("20060102150405"))
}

// ParseLoanID extracts the loan ID from an order token.
// Returns ErrMalformed on anything that does not match the expected shape.
func ParseLoanID(orderID string) (uint, error) {
	parts := strings.Split(orderID, "-")
	if len(parts) != 3 || parts[0] != Prefix || parts[2] == "" {
		return 0, ErrMalformed
	}
	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || id == 0 {
		return 0, ErrMalformed
	}
	return uint(id), nil
}
