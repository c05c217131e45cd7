package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from, to LoanStatus
	}{
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
		{StatusApproved, StatusReturned},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct {
		from, to LoanStatus
	}{
		{StatusPending, StatusReturned},
		{StatusApproved, StatusPending},
		{StatusApproved, StatusRejected},
		{StatusRejected, StatusApproved},
		{StatusRejected, StatusPending},
		{StatusReturned, StatusApproved},
		{StatusReturned, StatusPending},
		{StatusApproved, StatusApproved},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestLoanStatus_IsValid(t *testing.T) {
	for _, s := range []LoanStatus{StatusPending, StatusApproved, StatusRejected, StatusReturned} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, LoanStatus("cancelled").IsValid())
	assert.False(t, LoanStatus("").IsValid())
}

func TestLoanStatus_IsActive(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusApproved.IsActive())
	assert.False(t, StatusRejected.IsActive())
	assert.False(t, StatusReturned.IsActive())
}

func TestLoanStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusReturned.IsTerminal())
}
