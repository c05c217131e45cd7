package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFineRules_DueDate(t *testing.T) {
	rules := DefaultFineRules()

	due := rules.DueDate(date(2024, 1, 1))
	assert.Equal(t, date(2024, 1, 8), due)

	// month rollover
	due = rules.DueDate(date(2024, 1, 28))
	assert.Equal(t, date(2024, 2, 4), due)
}

func TestFineRules_FinalFine(t *testing.T) {
	rules := DefaultFineRules()
	due := date(2024, 1, 1)

	tests := []struct {
		name       string
		returnDate time.Time
		want       int64
	}{
		{"on due date", date(2024, 1, 1), 0},
		{"before due date", date(2023, 12, 30), 0},
		{"one day late", date(2024, 1, 2), 1000},
		{"four days late", date(2024, 1, 5), 4000},
		{"thirty days late", date(2024, 1, 31), 30000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.FinalFine(due, tt.returnDate))
		})
	}
}

func TestFineRules_FinalFine_IgnoresClockTime(t *testing.T) {
	rules := DefaultFineRules()
	due := date(2024, 1, 1)

	// 23:59 the next day is still exactly one day late
	returned := time.Date(2024, 1, 2, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, int64(1000), rules.FinalFine(due, returned))
}

func TestFineRules_RunningFine(t *testing.T) {
	rules := DefaultFineRules()
	due := date(2024, 1, 1)
	asOf := date(2024, 1, 4)

	// returned loans report the fixed amount, regardless of asOf
	assert.Equal(t, int64(2000), rules.RunningFine(StatusReturned, &due, 2000, asOf))

	// approved loans accrue past the due date
	assert.Equal(t, int64(3000), rules.RunningFine(StatusApproved, &due, 0, asOf))

	// approved but not yet due
	assert.Equal(t, int64(0), rules.RunningFine(StatusApproved, &due, 0, date(2023, 12, 31)))

	// approved with no due date yet
	assert.Equal(t, int64(0), rules.RunningFine(StatusApproved, nil, 0, asOf))

	// pending and rejected never carry fines
	assert.Equal(t, int64(0), rules.RunningFine(StatusPending, &due, 0, asOf))
	assert.Equal(t, int64(0), rules.RunningFine(StatusRejected, &due, 0, asOf))
}

func TestFineRules_CustomRate(t *testing.T) {
	rules := FineRules{FinePerDay: 500, LoanPeriodDays: 14, BorrowLimit: 3}

	assert.Equal(t, date(2024, 3, 15), rules.DueDate(date(2024, 3, 1)))
	assert.Equal(t, int64(1500), rules.FinalFine(date(2024, 3, 15), date(2024, 3, 18)))
}
