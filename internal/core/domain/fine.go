package domain

import "time"

// Default lending rules. Overridable via LibraryConfig / env.
const (
	DefaultFinePerDay     int64 = 1000 // minor currency units (Rupiah)
	DefaultLoanPeriodDays       = 7
	DefaultBorrowLimit          = 5
)

// FineRules parameterizes fine computation and borrowing limits.
// Held by the loan service at construction instead of scattered constants.
type FineRules struct {
	FinePerDay     int64
	LoanPeriodDays int
	BorrowLimit    int
}

// DefaultFineRules returns the standard lending rules
func DefaultFineRules() FineRules {
	return FineRules{
		FinePerDay:     DefaultFinePerDay,
		LoanPeriodDays: DefaultLoanPeriodDays,
		BorrowLimit:    DefaultBorrowLimit,
	}
}

// DueDate returns the due date for a loan borrowed on the given date
func (r FineRules) DueDate(borrowDate time.Time) time.Time {
	return borrowDate.AddDate(0, 0, r.LoanPeriodDays)
}

// FinalFine computes the fixed fine at return time. Zero when returned on
// or before the due date. The caller persists the result exactly once; it
// is never recomputed afterwards.
func (r FineRules) FinalFine(dueDate, returnDate time.Time) int64 {
	return r.lateFee(dueDate, returnDate)
}

// RunningFine projects the fine accruing on a loan as of the given instant.
// Returned loans report their already-fixed amount, overdue approved loans
// accrue day by day, everything else is zero. Never persisted.
func (r FineRules) RunningFine(status LoanStatus, dueDate *time.Time, fixedAmount int64, asOf time.Time) int64 {
	switch status {
	case StatusReturned:
		return fixedAmount
	case StatusApproved:
		if dueDate == nil {
			return 0
		}
		return r.lateFee(*dueDate, asOf)
	default:
		return 0
	}
}

// lateFee charges FinePerDay per full day past the due date
func (r FineRules) lateFee(dueDate, asOf time.Time) int64 {
	if !asOf.After(dueDate) {
		return 0
	}
	days := int64(daysBetween(dueDate, asOf))
	return days * r.FinePerDay
}

// daysBetween counts whole calendar days from a to b, ignoring clock time
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}
